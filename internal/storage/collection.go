package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/autorug/internal/errs"
)

// LoadCollection reads the JSON array stored under key.
// An absent key yields an empty collection. Malformed JSON is logged and also
// yields an empty collection; only backend failures are returned as errors.
func LoadCollection[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("Discarding unreadable collection",
			"key", key,
			"error", fmt.Errorf("%w: %v", errs.ErrPersistenceParse, err),
		)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveCollection serializes the full collection under key.
func SaveCollection[T any](ctx context.Context, kv KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// LoadValue reads a single JSON value stored under key.
// It returns (nil, nil) when the key is absent or the stored value is unreadable.
func LoadValue[T any](ctx context.Context, kv KV, key string) (*T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("Discarding unreadable value",
			"key", key,
			"error", fmt.Errorf("%w: %v", errs.ErrPersistenceParse, err),
		)
		return nil, nil
	}
	return &v, nil
}

// SaveValue serializes v under key.
func SaveValue[T any](ctx context.Context, kv KV, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
