// Package ledger keeps the coins and transactions collections of every user.
//
// Both collections live in one storage.KV and are always read and written in
// full. Every read is filtered by the acting user. Mutations within the
// process are serialized; across processes the last write wins.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/storage"
)

// Store is the ledger over a storage.KV.
type Store struct {
	kv  storage.KV
	now func() time.Time

	mu sync.Mutex

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func()
}

// Option configures a Store.
type Option func(*Store)

// WithNow overrides the time source used for timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a ledger Store over kv.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		now:  time.Now,
		subs: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to be called after every successful mutation.
// It returns a function that removes the registration.
func (s *Store) OnChange(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Coins returns the user's coins in stored order (newest creations first).
func (s *Store) Coins(ctx context.Context, userID string) ([]models.Coin, error) {
	all, err := storage.LoadCollection[models.Coin](ctx, s.kv, storage.KeyCoins)
	if err != nil {
		return nil, err
	}
	return filterCoins(all, userID), nil
}

// Coin returns one of the user's coins, or errs.ErrNotFound.
func (s *Store) Coin(ctx context.Context, userID, coinID string) (*models.Coin, error) {
	coins, err := s.Coins(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range coins {
		if coins[i].ID == coinID {
			return &coins[i], nil
		}
	}
	return nil, fmt.Errorf("coin %s: %w", coinID, errs.ErrNotFound)
}

// Transactions returns the user's transactions, newest first.
func (s *Store) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	all, err := storage.LoadCollection[models.Transaction](ctx, s.kv, storage.KeyTransactions)
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs, nil
}

// CreateCoin stores a new coin together with its paired creation transaction.
// The coin's ID and CreatedAt are generated if not set; the transaction
// amount is the coin's investment.
func (s *Store) CreateCoin(ctx context.Context, coin *models.Coin) (*models.Transaction, error) {
	if coin.UserID == "" {
		return nil, errs.Validation("userId", "required")
	}
	if coin.ID == "" {
		coin.ID = uuid.New().String()
	}
	if coin.CreatedAt.IsZero() {
		coin.CreatedAt = s.now()
	}

	tx := &models.Transaction{
		ID:        uuid.New().String(),
		UserID:    coin.UserID,
		CoinID:    coin.ID,
		CoinName:  coin.Name,
		Type:      models.TransactionCreation,
		Amount:    coin.Investment,
		Timestamp: coin.CreatedAt,
	}

	s.mu.Lock()
	err := s.createCoinLocked(ctx, coin, tx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	slog.Debug("Coin created", "coin_id", coin.ID, "user_id", coin.UserID, "investment", coin.Investment)
	s.notify()
	return tx, nil
}

func (s *Store) createCoinLocked(ctx context.Context, coin *models.Coin, tx *models.Transaction) error {
	coins, err := storage.LoadCollection[models.Coin](ctx, s.kv, storage.KeyCoins)
	if err != nil {
		return err
	}
	txs, err := storage.LoadCollection[models.Transaction](ctx, s.kv, storage.KeyTransactions)
	if err != nil {
		return err
	}

	coins = append([]models.Coin{*coin}, coins...)
	txs = append([]models.Transaction{*tx}, txs...)

	if err := storage.SaveCollection(ctx, s.kv, storage.KeyCoins, coins); err != nil {
		return fmt.Errorf("failed to save coin: %w", err)
	}
	if err := storage.SaveCollection(ctx, s.kv, storage.KeyTransactions, txs); err != nil {
		return fmt.Errorf("failed to save creation transaction: %w", err)
	}
	return nil
}

// Mutation is what a MutateCoin callback decides to do with a coin.
type Mutation struct {
	// Delete removes the coin. Otherwise Coin replaces it.
	Delete bool
	Coin   models.Coin

	// Removal, if positive, is logged as a removal transaction.
	Removal float64
}

// MutateCoin loads one of the user's coins, passes it to fn and persists the
// result. If fn returns an error nothing is written.
func (s *Store) MutateCoin(ctx context.Context, userID, coinID string, fn func(models.Coin) (Mutation, error)) (Mutation, error) {
	s.mu.Lock()
	m, err := s.mutateCoinLocked(ctx, userID, coinID, fn)
	s.mu.Unlock()
	if err != nil {
		return Mutation{}, err
	}

	s.notify()
	return m, nil
}

func (s *Store) mutateCoinLocked(ctx context.Context, userID, coinID string, fn func(models.Coin) (Mutation, error)) (Mutation, error) {
	coins, err := storage.LoadCollection[models.Coin](ctx, s.kv, storage.KeyCoins)
	if err != nil {
		return Mutation{}, err
	}

	idx := -1
	for i := range coins {
		if coins[i].ID == coinID && coins[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Mutation{}, fmt.Errorf("coin %s: %w", coinID, errs.ErrNotFound)
	}
	coin := coins[idx]

	m, err := fn(coin)
	if err != nil {
		return Mutation{}, err
	}

	if m.Delete {
		coins = append(coins[:idx], coins[idx+1:]...)
	} else {
		m.Coin.ID = coin.ID
		m.Coin.UserID = coin.UserID
		coins[idx] = m.Coin
	}
	if err := storage.SaveCollection(ctx, s.kv, storage.KeyCoins, coins); err != nil {
		return Mutation{}, fmt.Errorf("failed to save coins: %w", err)
	}

	if m.Removal > 0 {
		txs, err := storage.LoadCollection[models.Transaction](ctx, s.kv, storage.KeyTransactions)
		if err != nil {
			return Mutation{}, err
		}
		txs = append([]models.Transaction{{
			ID:        uuid.New().String(),
			UserID:    userID,
			CoinID:    coin.ID,
			CoinName:  coin.Name,
			Type:      models.TransactionRemoval,
			Amount:    m.Removal,
			Timestamp: s.now(),
		}}, txs...)
		if err := storage.SaveCollection(ctx, s.kv, storage.KeyTransactions, txs); err != nil {
			return Mutation{}, fmt.Errorf("failed to log removal: %w", err)
		}
	}
	return m, nil
}

// UpdateCoins rewrites every coin owned by the user through fn in a single
// write. It returns the updated coins.
func (s *Store) UpdateCoins(ctx context.Context, userID string, fn func(models.Coin) models.Coin) ([]models.Coin, error) {
	s.mu.Lock()
	updated, err := s.updateCoinsLocked(ctx, userID, fn)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if len(updated) > 0 {
		s.notify()
	}
	return updated, nil
}

func (s *Store) updateCoinsLocked(ctx context.Context, userID string, fn func(models.Coin) models.Coin) ([]models.Coin, error) {
	coins, err := storage.LoadCollection[models.Coin](ctx, s.kv, storage.KeyCoins)
	if err != nil {
		return nil, err
	}

	var updated []models.Coin
	for i := range coins {
		if coins[i].UserID != userID {
			continue
		}
		next := fn(coins[i])
		next.ID = coins[i].ID
		next.UserID = coins[i].UserID
		coins[i] = next
		updated = append(updated, next)
	}
	if len(updated) == 0 {
		return nil, nil
	}

	if err := storage.SaveCollection(ctx, s.kv, storage.KeyCoins, coins); err != nil {
		return nil, fmt.Errorf("failed to save coins: %w", err)
	}
	return updated, nil
}

// DeleteTransaction removes one of the user's transactions. Coins are untouched.
func (s *Store) DeleteTransaction(ctx context.Context, userID, txID string) error {
	s.mu.Lock()
	err := s.deleteTransactionLocked(ctx, userID, txID)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify()
	return nil
}

func (s *Store) deleteTransactionLocked(ctx context.Context, userID, txID string) error {
	txs, err := storage.LoadCollection[models.Transaction](ctx, s.kv, storage.KeyTransactions)
	if err != nil {
		return err
	}

	kept := txs[:0]
	found := false
	for _, tx := range txs {
		if tx.ID == txID && tx.UserID == userID {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	if !found {
		return fmt.Errorf("transaction %s: %w", txID, errs.ErrNotFound)
	}

	if err := storage.SaveCollection(ctx, s.kv, storage.KeyTransactions, kept); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

func filterCoins(all []models.Coin, userID string) []models.Coin {
	coins := make([]models.Coin, 0, len(all))
	for _, c := range all {
		if c.UserID == userID {
			coins = append(coins, c)
		}
	}
	return coins
}
