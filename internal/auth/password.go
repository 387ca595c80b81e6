package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/storage"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", errs.ErrAuth)
	ErrUsernameTaken      = fmt.Errorf("%w: username already registered", errs.ErrAuth)
)

// UserStorage defines the user persistence the authenticator needs.
// *storage.UserStore implements it.
type UserStorage interface {
	CreateUser(ctx context.Context, user *storage.StoredUser) error
	GetUserByUsername(ctx context.Context, username string) (*storage.StoredUser, error)
	GetUserByID(ctx context.Context, id string) (*storage.StoredUser, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a password authenticator hashing with the
// given bcrypt cost. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewPasswordAuthenticator(storage UserStorage, cost int) *PasswordAuthenticator {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordAuthenticator{
		storage: storage,
		cost:    cost,
	}
}

// ValidateCredential checks that a password was given.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if credential == "" {
		return errs.Validation("password", "required")
	}
	// bcrypt ignores everything past 72 bytes.
	if len(credential) > 72 {
		return errs.Validation("password", "must be at most 72 bytes")
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, name, credential string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.Validation("username", "required")
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	existing, err := a.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	stored := &storage.StoredUser{
		User:         models.User{Username: username, Name: name},
		PasswordHash: string(hash),
	}
	if err := a.storage.CreateUser(ctx, stored); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, errs.ErrAuth) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := stored.User
	return &user, nil
}

// Authenticate verifies the username and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	stored, err := a.storage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := stored.User
	return &user, nil
}
