// Package storage provides the key-value persistence port and typed helpers on top of it.
package storage

import (
	"context"
	"errors"
)

// Keys under which collections and the session are persisted.
const (
	KeyUsers        = "autorug_users"
	KeyCurrentUser  = "autorug_current_user"
	KeyCoins        = "autorug_coins"
	KeyTransactions = "autorug_transactions"
)

// ErrNotFound is returned by KV.Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// KV defines the interface for the flat key-value store everything persists to.
// This abstraction allows swapping storage backends (memory, SQLite, Redis)
// without changing the ledger or auth code.
type KV interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
