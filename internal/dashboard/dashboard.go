// Package dashboard serves a user's coins and history and applies the
// liquidity actions offered on them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/autorug/internal/calculator"
	"github.com/mmynk/autorug/internal/clock"
	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/ledger"
	"github.com/mmynk/autorug/internal/metrics"
	"github.com/mmynk/autorug/internal/models"
)

// Delays are the simulated latencies of dashboard actions.
type Delays struct {
	RemovalMin time.Duration
	RemovalMax time.Duration
}

// DefaultDelays returns the production delays.
func DefaultDelays() Delays {
	return Delays{RemovalMin: 2 * time.Second, RemovalMax: 4 * time.Second}
}

// Overview is everything the dashboard shows for one user.
type Overview struct {
	Coins        []models.Coin        `json:"coins"`
	Transactions []models.Transaction `json:"transactions"`
	Summary      calculator.Summary   `json:"summary"`
}

// Service implements the dashboard actions.
type Service struct {
	ledger  *ledger.Store
	clock   clock.Clock
	rand    clock.Rand
	delays  Delays
	metrics *metrics.Metrics

	mu         sync.Mutex
	removing   map[string]struct{} // coin IDs
	generating map[string]struct{} // user IDs
}

// Option configures a Service.
type Option func(*Service)

func WithClock(c clock.Clock) Option { return func(s *Service) { s.clock = c } }

func WithRand(r clock.Rand) Option { return func(s *Service) { s.rand = r } }

func WithDelays(d Delays) Option { return func(s *Service) { s.delays = d } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// New creates a dashboard Service over store.
func New(store *ledger.Store, opts ...Option) *Service {
	s := &Service{
		ledger:     store,
		clock:      clock.Real(),
		rand:       clock.GlobalRand(),
		delays:     DefaultDelays(),
		removing:   make(map[string]struct{}),
		generating: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview returns the user's coins, newest-first history and analytics.
func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	coins, err := s.ledger.Coins(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load coins: %w", err)
	}
	txs, err := s.ledger.Transactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return &Overview{
		Coins:        coins,
		Transactions: txs,
		Summary:      calculator.Summarize(txs, s.clock.Now()),
	}, nil
}

// RemoveLiquidityPreset withdraws 25%, 50% or all of a coin's current liquidity.
func (s *Service) RemoveLiquidityPreset(ctx context.Context, userID, coinID string, preset calculator.Preset) (calculator.Withdrawal, error) {
	coin, err := s.ledger.Coin(ctx, userID, coinID)
	if err != nil {
		return calculator.Withdrawal{}, err
	}
	amount, err := calculator.PresetAmount(coin.Liquidity(), preset)
	if err != nil {
		return calculator.Withdrawal{}, err
	}
	return s.RemoveLiquidity(ctx, userID, coinID, amount)
}

// RemoveLiquidity withdraws amount SOL from a coin after the simulated delay.
//
// Input is checked before the delay so an invalid request changes nothing.
// If ctx ends during the delay the withdrawal is abandoned. A second removal
// for the same coin while one is pending fails with errs.ErrPending.
func (s *Service) RemoveLiquidity(ctx context.Context, userID, coinID string, amount float64) (calculator.Withdrawal, error) {
	coin, err := s.ledger.Coin(ctx, userID, coinID)
	if err != nil {
		return calculator.Withdrawal{}, err
	}
	if _, err := calculator.Withdraw(*coin, amount); err != nil {
		return calculator.Withdrawal{}, err
	}

	if !s.acquire(s.removing, coinID) {
		return calculator.Withdrawal{}, fmt.Errorf("liquidity removal for coin %s: %w", coinID, errs.ErrPending)
	}
	defer s.release(s.removing, coinID)

	delay := clock.Between(s.rand, s.delays.RemovalMin, s.delays.RemovalMax)
	if err := clock.Sleep(ctx, s.clock, delay); err != nil {
		slog.Info("Liquidity removal abandoned", "user_id", userID, "coin_id", coinID, "error", err)
		return calculator.Withdrawal{}, err
	}

	var result calculator.Withdrawal
	_, err = s.ledger.MutateCoin(ctx, userID, coinID, func(c models.Coin) (ledger.Mutation, error) {
		w, err := calculator.Withdraw(c, amount)
		if err != nil {
			return ledger.Mutation{}, err
		}
		result = w
		return ledger.Mutation{Delete: w.Deleted, Coin: w.Coin, Removal: w.Amount}, nil
	})
	if err != nil {
		return calculator.Withdrawal{}, err
	}

	s.metrics.LiquidityRemoved(result.Amount, result.Deleted)
	slog.Info("Liquidity removed",
		"user_id", userID,
		"coin_id", coinID,
		"amount", result.Amount,
		"deleted", result.Deleted,
	)
	return result, nil
}

// GeneratePNL draws a new simulated profit for every coin the user owns in
// one write.
func (s *Service) GeneratePNL(ctx context.Context, userID string) ([]models.Coin, error) {
	if !s.acquire(s.generating, userID) {
		return nil, fmt.Errorf("pnl generation: %w", errs.ErrPending)
	}
	defer s.release(s.generating, userID)

	coins, err := s.ledger.UpdateCoins(ctx, userID, func(c models.Coin) models.Coin {
		return calculator.SimulatePNL(c, s.rand)
	})
	if err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, errs.Validation("coins", "create a coin first to generate PNL")
	}

	s.metrics.PNLGenerated()
	slog.Info("PNL generated", "user_id", userID, "coins", len(coins))
	return coins, nil
}

// DeleteTransaction removes one entry from the user's history.
func (s *Service) DeleteTransaction(ctx context.Context, userID, txID string) error {
	if err := s.ledger.DeleteTransaction(ctx, userID, txID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	slog.Info("Transaction deleted", "user_id", userID, "transaction_id", txID)
	return nil
}

func (s *Service) acquire(set map[string]struct{}, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := set[key]; busy {
		return false
	}
	set[key] = struct{}{}
	return true
}

func (s *Service) release(set map[string]struct{}, key string) {
	s.mu.Lock()
	delete(set, key)
	s.mu.Unlock()
}
