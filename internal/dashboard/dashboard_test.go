package dashboard

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/autorug/internal/auth"
	"github.com/mmynk/autorug/internal/calculator"
	"github.com/mmynk/autorug/internal/clock"
	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/ledger"
	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/storage"
	"github.com/mmynk/autorug/internal/storage/memory"
	"github.com/mmynk/autorug/internal/wizard"
)

type fixture struct {
	kv     storage.KV
	fake   *clock.Fake
	ledger *ledger.Store
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := memory.New()
	fake := clock.NewFake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	store := ledger.New(kv, ledger.WithNow(fake.Now))
	svc := New(store,
		WithClock(fake),
		WithRand(rand.New(rand.NewPCG(3, 4))),
	)
	return &fixture{kv: kv, fake: fake, ledger: store, svc: svc}
}

func (f *fixture) createCoin(t *testing.T, userID, name string, investment float64) models.Coin {
	t.Helper()
	coin := &models.Coin{UserID: userID, Name: name, Investment: investment, Platform: "Raydium"}
	if _, err := f.ledger.CreateCoin(context.Background(), coin); err != nil {
		t.Fatalf("CreateCoin failed: %v", err)
	}
	return *coin
}

type removal struct {
	w   calculator.Withdrawal
	err error
}

// startRemoval runs fn in the background and waits until its delay is scheduled.
func (f *fixture) startRemoval(fn func() (calculator.Withdrawal, error)) <-chan removal {
	done := make(chan removal, 1)
	go func() {
		w, err := fn()
		done <- removal{w, err}
	}()
	f.fake.BlockUntil(1)
	return done
}

func (f *fixture) withdraw(t *testing.T, userID, coinID string, amount float64) calculator.Withdrawal {
	t.Helper()
	done := f.startRemoval(func() (calculator.Withdrawal, error) {
		return f.svc.RemoveLiquidity(context.Background(), userID, coinID, amount)
	})
	f.fake.Advance(DefaultDelays().RemovalMax)
	r := <-done
	if r.err != nil {
		t.Fatalf("RemoveLiquidity(%v) failed: %v", amount, r.err)
	}
	return r.w
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users := storage.NewUserStore(f.kv)
	session := auth.NewSession(f.kv, auth.NewPasswordAuthenticator(users, bcrypt.MinCost))
	session.Load(ctx)
	alice, err := session.Register(ctx, "alice", "hunter2", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	w := wizard.New(alice.ID, f.ledger, wizard.WithClock(f.fake), wizard.WithRand(rand.New(rand.NewPCG(5, 6))))
	defer w.Close()
	steps := []func() error{
		func() error { return w.SetDetails("DogeMax", "", "") },
		func() error { return w.Next(ctx) },
		w.Skip,
		func() error { return w.SetPlatform(models.PlatformRaydium) },
		func() error { return w.Next(ctx) },
		func() error { f.fake.Advance(wizard.DefaultDelays().Creation); return nil },
		w.ConnectWallet,
		func() error { f.fake.Advance(wizard.DefaultDelays().WalletMax); return nil },
		func() error { return w.Next(ctx) },
		func() error { return w.SetLiquidity(2) },
		func() error { return w.Next(ctx) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("wizard step %d failed: %v", i, err)
		}
	}
	if w.State().Step != wizard.StepSuccess {
		t.Fatalf("wizard ended on %s", w.State().Step)
	}

	ov, err := f.svc.Overview(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if len(ov.Coins) != 1 || len(ov.Transactions) != 1 {
		t.Fatalf("got %d coins and %d transactions, want 1 and 1", len(ov.Coins), len(ov.Transactions))
	}
	coin := ov.Coins[0]
	if coin.Investment != 2 || coin.Profit != 0 || coin.PNL != 0 {
		t.Errorf("unexpected coin: %+v", coin)
	}
	if tx := ov.Transactions[0]; tx.Type != models.TransactionCreation || tx.Amount != 2 {
		t.Errorf("unexpected creation transaction: %+v", tx)
	}

	f.withdraw(t, alice.ID, coin.ID, 1)
	ov, _ = f.svc.Overview(ctx, alice.ID)
	if len(ov.Coins) != 1 || ov.Coins[0].Investment != 1 || ov.Coins[0].Profit != 0 {
		t.Fatalf("after first withdrawal: %+v", ov.Coins)
	}
	if tx := ov.Transactions[0]; tx.Type != models.TransactionRemoval || tx.Amount != 1 {
		t.Errorf("expected newest removal of 1, got %+v", tx)
	}

	done := f.startRemoval(func() (calculator.Withdrawal, error) {
		return f.svc.RemoveLiquidityPreset(ctx, alice.ID, coin.ID, calculator.PresetMax)
	})
	f.fake.Advance(DefaultDelays().RemovalMax)
	r := <-done
	if r.err != nil {
		t.Fatalf("MAX withdrawal failed: %v", r.err)
	}
	if !r.w.Deleted || r.w.Amount != 1 {
		t.Errorf("MAX withdrawal = %+v, want deletion of 1", r.w)
	}

	ov, _ = f.svc.Overview(ctx, alice.ID)
	if len(ov.Coins) != 0 {
		t.Errorf("expected no coins, got %+v", ov.Coins)
	}
	if len(ov.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(ov.Transactions))
	}
	if tx := ov.Transactions[0]; tx.Type != models.TransactionRemoval || tx.Amount != 1 {
		t.Errorf("expected final removal of 1, got %+v", tx)
	}
	if ov.Summary.TotalLiquidityAdded != 2 || ov.Summary.TotalLiquidityRemoved != 2 {
		t.Errorf("unexpected summary: %+v", ov.Summary)
	}
}

func TestRemoveLiquidityRejectsInvalidAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coin := f.createCoin(t, "alice", "DogeMax", 2)

	tests := []struct {
		name   string
		amount float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"not a number", math.NaN()},
		{"infinite", math.Inf(1)},
		{"more than liquidity", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RemoveLiquidity(ctx, "alice", coin.ID, tt.amount)
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if f.fake.Pending() != 0 {
				t.Error("invalid removal scheduled a delay")
			}

			got, _ := f.ledger.Coin(ctx, "alice", coin.ID)
			if got.Investment != 2 {
				t.Errorf("investment changed to %v", got.Investment)
			}
			txs, _ := f.ledger.Transactions(ctx, "alice")
			if len(txs) != 1 {
				t.Errorf("got %d transactions, want only the creation", len(txs))
			}
		})
	}
}

func TestRemoveLiquidityKeepsSplit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coin := f.createCoin(t, "alice", "DogeMax", 2)
	f.ledger.UpdateCoins(ctx, "alice", func(c models.Coin) models.Coin {
		c.Profit = 2
		return c
	})

	w := f.withdraw(t, "alice", coin.ID, 1)
	if w.Deleted || w.Amount != 1 {
		t.Fatalf("unexpected withdrawal: %+v", w)
	}

	got, _ := f.ledger.Coin(ctx, "alice", coin.ID)
	if got.Investment != 1.5 || got.Profit != 1.5 {
		t.Errorf("investment/profit = %v/%v, want 1.5/1.5", got.Investment, got.Profit)
	}
}

func TestRemoveLiquidityDust(t *testing.T) {
	f := newFixture(t)
	coin := f.createCoin(t, "alice", "DogeMax", 1)

	w := f.withdraw(t, "alice", coin.ID, 0.9995)
	if !w.Deleted || w.Amount != 1 {
		t.Errorf("withdrawal = %+v, want deletion of full liquidity", w)
	}
	if _, err := f.ledger.Coin(context.Background(), "alice", coin.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected coin to be gone, got %v", err)
	}
}

func TestRemoveLiquidityPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coin := f.createCoin(t, "alice", "DogeMax", 2)

	done := f.startRemoval(func() (calculator.Withdrawal, error) {
		return f.svc.RemoveLiquidity(ctx, "alice", coin.ID, 0.5)
	})

	if _, err := f.svc.RemoveLiquidity(ctx, "alice", coin.ID, 0.5); !errors.Is(err, errs.ErrPending) {
		t.Errorf("concurrent removal = %v, want ErrPending", err)
	}

	f.fake.Advance(DefaultDelays().RemovalMax)
	if r := <-done; r.err != nil {
		t.Fatalf("first removal failed: %v", r.err)
	}

	// The guard is released once the first removal lands.
	f.withdraw(t, "alice", coin.ID, 0.5)
	got, _ := f.ledger.Coin(ctx, "alice", coin.ID)
	if math.Abs(got.Investment-1) > 1e-9 {
		t.Errorf("investment = %v, want 1", got.Investment)
	}
}

func TestRemoveLiquidityCancelled(t *testing.T) {
	f := newFixture(t)
	coin := f.createCoin(t, "alice", "DogeMax", 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := f.startRemoval(func() (calculator.Withdrawal, error) {
		return f.svc.RemoveLiquidity(ctx, "alice", coin.ID, 1)
	})
	cancel()

	r := <-done
	if !errors.Is(r.err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", r.err)
	}
	f.fake.Advance(time.Minute)

	got, _ := f.ledger.Coin(context.Background(), "alice", coin.ID)
	if got.Investment != 2 {
		t.Errorf("cancelled removal changed investment to %v", got.Investment)
	}
	txs, _ := f.ledger.Transactions(context.Background(), "alice")
	if len(txs) != 1 {
		t.Errorf("cancelled removal logged a transaction")
	}
}

func TestRemoveLiquidityPreset(t *testing.T) {
	tests := []struct {
		preset        calculator.Preset
		wantRemaining float64
	}{
		{calculator.PresetQuarter, 1.5},
		{calculator.PresetHalf, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			coin := f.createCoin(t, "alice", "DogeMax", 2)

			done := f.startRemoval(func() (calculator.Withdrawal, error) {
				return f.svc.RemoveLiquidityPreset(ctx, "alice", coin.ID, tt.preset)
			})
			f.fake.Advance(DefaultDelays().RemovalMax)
			if r := <-done; r.err != nil {
				t.Fatalf("preset removal failed: %v", r.err)
			}

			got, _ := f.ledger.Coin(ctx, "alice", coin.ID)
			if got.Liquidity() != tt.wantRemaining {
				t.Errorf("liquidity = %v, want %v", got.Liquidity(), tt.wantRemaining)
			}
		})
	}

	f := newFixture(t)
	coin := f.createCoin(t, "alice", "DogeMax", 2)
	if _, err := f.svc.RemoveLiquidityPreset(context.Background(), "alice", coin.ID, "75"); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("unknown preset = %v, want validation error", err)
	}
}

func TestRemoveLiquidityOtherUsersCoin(t *testing.T) {
	f := newFixture(t)
	coin := f.createCoin(t, "bob", "BobCoin", 2)

	_, err := f.svc.RemoveLiquidity(context.Background(), "alice", coin.ID, 1)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGeneratePNL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GeneratePNL(ctx, "alice"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("GeneratePNL without coins = %v, want validation error", err)
	}

	f.createCoin(t, "alice", "A1", 2)
	f.createCoin(t, "alice", "A2", 3)
	bob := f.createCoin(t, "bob", "B1", 4)

	coins, err := f.svc.GeneratePNL(ctx, "alice")
	if err != nil {
		t.Fatalf("GeneratePNL failed: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("updated %d coins, want 2", len(coins))
	}
	for _, c := range coins {
		if c.Profit == 0 {
			t.Errorf("coin %s has no simulated profit", c.Name)
		}
		if c.Liquidity() <= 0 {
			t.Errorf("coin %s liquidity %v should stay positive", c.Name, c.Liquidity())
		}
		if want := calculator.PNLPercent(c); c.PNL != want {
			t.Errorf("coin %s pnl = %v, want %v", c.Name, c.PNL, want)
		}
	}

	stored, _ := f.ledger.Coins(ctx, "alice")
	if stored[0].Investment != 3 || stored[1].Investment != 2 {
		t.Errorf("investments changed: %+v", stored)
	}
	other, _ := f.ledger.Coin(ctx, "bob", bob.ID)
	if other.Profit != 0 {
		t.Errorf("bob's coin was touched: %+v", other)
	}
}

func TestDeleteTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createCoin(t, "alice", "DogeMax", 2)

	ov, _ := f.svc.Overview(ctx, "alice")
	if err := f.svc.DeleteTransaction(ctx, "alice", ov.Transactions[0].ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if err := f.svc.DeleteTransaction(ctx, "alice", ov.Transactions[0].ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}

	ov, _ = f.svc.Overview(ctx, "alice")
	if len(ov.Coins) != 1 || len(ov.Transactions) != 0 {
		t.Errorf("got %d coins and %d transactions, want 1 and 0", len(ov.Coins), len(ov.Transactions))
	}
}
