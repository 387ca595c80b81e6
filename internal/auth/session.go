package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/storage"
)

// Session is the process-wide record of who is signed in. It survives restarts
// through the autorug_current_user key, which holds {id, username, name} only.
type Session struct {
	kv   storage.KV
	auth Authenticator

	mu      sync.RWMutex
	current *models.User
	loading bool
}

// NewSession creates a Session. It stays loading until Load is called.
func NewSession(kv storage.KV, auth Authenticator) *Session {
	return &Session{kv: kv, auth: auth, loading: true}
}

// Load reads the persisted session. An unreadable value signs nobody in.
func (s *Session) Load(ctx context.Context) error {
	user, err := storage.LoadValue[models.User](ctx, s.kv, storage.KeyCurrentUser)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	if user != nil && user.ID == "" {
		user = nil
	}
	s.current = user
	return nil
}

// IsLoading reports whether Load has not finished yet.
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// CurrentUser returns the signed-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Register creates an account and signs it in.
func (s *Session) Register(ctx context.Context, username, password, name string) (*models.User, error) {
	user, err := s.auth.Register(ctx, username, name, password)
	if err != nil {
		slog.Info("Registration failed", "username", username, "error", err)
		return nil, err
	}
	if err := s.signIn(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login signs in the user matching username and password.
func (s *Session) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		slog.Info("Login failed", "username", username)
		return nil, err
	}
	if err := s.signIn(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("User logged in", "user_id", user.ID)
	return user, nil
}

// Logout clears the session.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, storage.KeyCurrentUser); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	s.current = nil
	return nil
}

func (s *Session) signIn(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.SaveValue(ctx, s.kv, storage.KeyCurrentUser, *user); err != nil {
		return err
	}
	u := *user
	s.current = &u
	s.loading = false
	return nil
}
