package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/models"
)

// StoredUser is a user record as persisted, including its password hash.
type StoredUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

// UserStore keeps the users collection in a KV.
type UserStore struct {
	kv KV
	mu sync.Mutex
}

// NewUserStore creates a UserStore over kv.
func NewUserStore(kv KV) *UserStore {
	return &UserStore{kv: kv}
}

// CreateUser appends a user to the collection.
// It generates an ID if not set and fails with errs.ErrAuth if the username is taken.
func (s *UserStore) CreateUser(ctx context.Context, user *StoredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := LoadCollection[StoredUser](ctx, s.kv, KeyUsers)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %q already registered", errs.ErrAuth, user.Username)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	users = append(users, *user)
	if err := SaveCollection(ctx, s.kv, KeyUsers, users); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user by username.
// Returns nil and no error if the user does not exist.
func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*StoredUser, error) {
	return s.find(ctx, func(u StoredUser) bool { return u.Username == username })
}

// GetUserByID retrieves a user by ID.
// Returns nil and no error if the user does not exist.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*StoredUser, error) {
	return s.find(ctx, func(u StoredUser) bool { return u.ID == id })
}

// Count returns the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	users, err := LoadCollection[StoredUser](ctx, s.kv, KeyUsers)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (s *UserStore) find(ctx context.Context, match func(StoredUser) bool) (*StoredUser, error) {
	users, err := LoadCollection[StoredUser](ctx, s.kv, KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	for i := range users {
		if match(users[i]) {
			return &users[i], nil
		}
	}
	return nil, nil
}
