package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/autorug/internal/auth"
	"github.com/mmynk/autorug/internal/dashboard"
	"github.com/mmynk/autorug/internal/ledger"
	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/storage"
	"github.com/mmynk/autorug/internal/storage/memory"
	"github.com/mmynk/autorug/internal/wizard"
	"github.com/mmynk/autorug/pkg/api"
	"github.com/mmynk/autorug/pkg/api/apiconnect"
)

type testClients struct {
	auth      *apiconnect.AuthServiceClient
	wizard    *apiconnect.WizardServiceClient
	dashboard *apiconnect.DashboardServiceClient
}

// setupTestServer starts every service over an in-memory store with the
// simulated delays turned off.
func setupTestServer(t *testing.T) (testClients, func()) {
	t.Helper()

	kv := memory.New()
	users := storage.NewUserStore(kv)
	store := ledger.New(kv)
	wizards := wizard.NewManager(store, wizard.WithDelays(wizard.Delays{}))

	mux := http.NewServeMux()
	Register(mux, Deps{
		Authenticator: auth.NewPasswordAuthenticator(users, bcrypt.MinCost),
		JWT:           auth.NewJWTManager("test-secret", time.Hour),
		Wizards:       wizards,
		Dashboard:     dashboard.New(store, dashboard.WithDelays(dashboard.Delays{})),
		Logger:        slog.Default(),
	})
	server := httptest.NewServer(mux)

	clients := testClients{
		auth:      apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		wizard:    apiconnect.NewWizardServiceClient(http.DefaultClient, server.URL),
		dashboard: apiconnect.NewDashboardServiceClient(http.DefaultClient, server.URL),
	}

	cleanup := func() {
		server.Close()
		wizards.Close()
	}
	return clients, cleanup
}

// authed wraps msg in a request carrying token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func register(t *testing.T, c testClients, username string) string {
	t.Helper()
	resp, err := c.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Username:        username,
		Password:        "hunter2",
		ConfirmPassword: "hunter2",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return resp.Msg.Token
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (%v)", got, want, err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	resp, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Username:        "alice",
		Password:        "hunter2",
		ConfirmPassword: "hunter2",
		Name:            "Alice",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Msg.Token == "" || resp.Msg.User.ID == "" || resp.Msg.User.Name != "Alice" {
		t.Errorf("unexpected register response: %+v", resp.Msg)
	}

	login, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Username: "alice", Password: "hunter2"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.ID != resp.Msg.User.ID {
		t.Errorf("login user = %s, want %s", login.Msg.User.ID, resp.Msg.User.ID)
	}

	me, err := c.auth.GetCurrentUser(ctx, authed(login.Msg.Token, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.Username != "alice" {
		t.Errorf("current user = %+v", me.Msg.User)
	}

	if _, err := c.auth.Logout(ctx, authed(login.Msg.Token, &api.LogoutRequest{})); err != nil {
		t.Errorf("Logout failed: %v", err)
	}
}

func TestAuthErrors(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	register(t, c, "alice")

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{
			name: "passwords do not match",
			call: func() error {
				_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
					Username: "bob", Password: "a", ConfirmPassword: "b",
				}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate username",
			call: func() error {
				_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
					Username: "alice", Password: "x", ConfirmPassword: "x",
				}))
				return err
			},
			want: connect.CodeAlreadyExists,
		},
		{
			name: "wrong password",
			call: func() error {
				_, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Username: "alice", Password: "nope"}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "unknown user",
			call: func() error {
				_, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Username: "carol", Password: "hunter2"}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "anonymous current user",
			call: func() error {
				_, err := c.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "protected service without token",
			call: func() error {
				_, err := c.dashboard.GetOverview(ctx, connect.NewRequest(&api.GetOverviewRequest{}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "protected service with bad token",
			call: func() error {
				_, err := c.wizard.StartWizard(ctx, authed("garbage", &api.StartWizardRequest{}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), tt.want)
		})
	}
}

func ptr[T any](v T) *T { return &v }

// launchCoin drives a wizard over RPC and returns the final state.
func launchCoin(t *testing.T, c testClients, token, name string, liquidity float64) wizard.State {
	t.Helper()
	ctx := context.Background()

	if _, err := c.wizard.StartWizard(ctx, authed(token, &api.StartWizardRequest{})); err != nil {
		t.Fatalf("StartWizard failed: %v", err)
	}

	calls := []struct {
		name string
		call func() (*connect.Response[api.WizardResponse], error)
	}{
		{"details", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.UpdateWizard(ctx, authed(token, &api.UpdateWizardRequest{Details: &api.DetailsInput{Name: name}}))
		}},
		{"next", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.Advance(ctx, authed(token, &api.AdvanceRequest{Action: api.ActionNext}))
		}},
		{"skip", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.Advance(ctx, authed(token, &api.AdvanceRequest{Action: api.ActionSkip}))
		}},
		{"platform", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.UpdateWizard(ctx, authed(token, &api.UpdateWizardRequest{Platform: ptr(models.PlatformRaydium)}))
		}},
		{"next through loading", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.Advance(ctx, authed(token, &api.AdvanceRequest{Action: api.ActionNext, Wait: true}))
		}},
		{"connect wallet", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.ConnectWallet(ctx, authed(token, &api.ConnectWalletRequest{Wait: true}))
		}},
		{"next to liquidity", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.Advance(ctx, authed(token, &api.AdvanceRequest{Action: api.ActionNext}))
		}},
		{"liquidity", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.UpdateWizard(ctx, authed(token, &api.UpdateWizardRequest{LiquidityAmount: ptr(liquidity)}))
		}},
		{"finish", func() (*connect.Response[api.WizardResponse], error) {
			return c.wizard.Advance(ctx, authed(token, &api.AdvanceRequest{Action: api.ActionNext}))
		}},
	}

	var last wizard.State
	for _, step := range calls {
		resp, err := step.call()
		if err != nil {
			t.Fatalf("wizard %s failed: %v", step.name, err)
		}
		last = resp.Msg.State
	}
	return last
}

func TestWizardAndDashboardFlow(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	token := register(t, c, "alice")

	final := launchCoin(t, c, token, "DogeMax", 2)
	if final.Step != wizard.StepSuccess || final.Redirect != "/dashboard" {
		t.Fatalf("unexpected final wizard state: %+v", final)
	}

	ov, err := c.dashboard.GetOverview(ctx, authed(token, &api.GetOverviewRequest{}))
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}
	if len(ov.Msg.Coins) != 1 || len(ov.Msg.Transactions) != 1 {
		t.Fatalf("got %d coins and %d transactions", len(ov.Msg.Coins), len(ov.Msg.Transactions))
	}
	coin := ov.Msg.Coins[0]
	if coin.Name != "DogeMax" || coin.Platform != "Raydium" || coin.Investment != 2 {
		t.Errorf("unexpected coin: %+v", coin)
	}
	if ov.Msg.Summary.CoinsCreatedRecently != 1 {
		t.Errorf("summary = %+v", ov.Msg.Summary)
	}

	rm, err := c.dashboard.RemoveLiquidity(ctx, authed(token, &api.RemoveLiquidityRequest{CoinID: coin.ID, Amount: ptr(1.0)}))
	if err != nil {
		t.Fatalf("RemoveLiquidity failed: %v", err)
	}
	if rm.Msg.Deleted || rm.Msg.Amount != 1 || rm.Msg.Coin == nil || rm.Msg.Coin.Investment != 1 {
		t.Errorf("unexpected removal: %+v", rm.Msg)
	}

	_, err = c.dashboard.RemoveLiquidity(ctx, authed(token, &api.RemoveLiquidityRequest{CoinID: coin.ID, Amount: ptr(5.0)}))
	assertCode(t, err, connect.CodeInvalidArgument)

	pnl, err := c.dashboard.GeneratePNL(ctx, authed(token, &api.GeneratePNLRequest{}))
	if err != nil {
		t.Fatalf("GeneratePNL failed: %v", err)
	}
	if len(pnl.Msg.Coins) != 1 || pnl.Msg.Coins[0].Profit == 0 {
		t.Errorf("unexpected pnl result: %+v", pnl.Msg.Coins)
	}

	rm, err = c.dashboard.RemoveLiquidity(ctx, authed(token, &api.RemoveLiquidityRequest{CoinID: coin.ID, Preset: "max"}))
	if err != nil {
		t.Fatalf("MAX removal failed: %v", err)
	}
	if !rm.Msg.Deleted || rm.Msg.Coin != nil {
		t.Errorf("expected coin deletion, got %+v", rm.Msg)
	}

	_, err = c.dashboard.GeneratePNL(ctx, authed(token, &api.GeneratePNLRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)

	ov, _ = c.dashboard.GetOverview(ctx, authed(token, &api.GetOverviewRequest{}))
	if len(ov.Msg.Coins) != 0 || len(ov.Msg.Transactions) != 3 {
		t.Fatalf("got %d coins and %d transactions, want 0 and 3", len(ov.Msg.Coins), len(ov.Msg.Transactions))
	}

	txID := ov.Msg.Transactions[0].ID
	if _, err := c.dashboard.DeleteTransaction(ctx, authed(token, &api.DeleteTransactionRequest{TransactionID: txID})); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	_, err = c.dashboard.DeleteTransaction(ctx, authed(token, &api.DeleteTransactionRequest{TransactionID: txID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestWizardRPCErrors(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	token := register(t, c, "alice")

	_, err := c.wizard.GetWizard(ctx, authed(token, &api.GetWizardRequest{}))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := c.wizard.StartWizard(ctx, authed(token, &api.StartWizardRequest{})); err != nil {
		t.Fatalf("StartWizard failed: %v", err)
	}

	_, err = c.wizard.Advance(ctx, authed(token, &api.AdvanceRequest{Action: api.ActionNext}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.wizard.Advance(ctx, authed(token, &api.AdvanceRequest{Action: "sideways"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.wizard.UpdateWizard(ctx, authed(token, &api.UpdateWizardRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.wizard.ConnectWallet(ctx, authed(token, &api.ConnectWalletRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)

	cancel, err := c.wizard.CancelWizard(ctx, authed(token, &api.CancelWizardRequest{}))
	if err != nil || !cancel.Msg.Cancelled {
		t.Fatalf("CancelWizard = %+v, %v", cancel, err)
	}
	_, err = c.wizard.GetWizard(ctx, authed(token, &api.GetWizardRequest{}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestUsersAreIsolated(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := register(t, c, "alice")
	bob := register(t, c, "bob")
	launchCoin(t, c, alice, "DogeMax", 2)

	ov, _ := c.dashboard.GetOverview(ctx, authed(alice, &api.GetOverviewRequest{}))
	coinID := ov.Msg.Coins[0].ID

	bobView, err := c.dashboard.GetOverview(ctx, authed(bob, &api.GetOverviewRequest{}))
	if err != nil {
		t.Fatalf("GetOverview(bob) failed: %v", err)
	}
	if len(bobView.Msg.Coins) != 0 || len(bobView.Msg.Transactions) != 0 {
		t.Errorf("bob sees alice's data: %+v", bobView.Msg)
	}

	_, err = c.dashboard.RemoveLiquidity(ctx, authed(bob, &api.RemoveLiquidityRequest{CoinID: coinID, Preset: "max"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.dashboard.DeleteTransaction(ctx, authed(bob, &api.DeleteTransactionRequest{TransactionID: ov.Msg.Transactions[0].ID}))
	assertCode(t, err, connect.CodeNotFound)
}
