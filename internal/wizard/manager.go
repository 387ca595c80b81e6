package wizard

import (
	"fmt"
	"sync"

	"github.com/mmynk/autorug/internal/errs"
)

// Manager holds at most one open wizard per user.
type Manager struct {
	coins CoinCreator
	opts  []Option

	mu      sync.Mutex
	wizards map[string]*Wizard
}

// NewManager creates a Manager whose wizards write to coins and share opts.
func NewManager(coins CoinCreator, opts ...Option) *Manager {
	return &Manager{
		coins:   coins,
		opts:    opts,
		wizards: make(map[string]*Wizard),
	}
}

// Start opens a fresh wizard for userID, closing any previous one.
func (m *Manager) Start(userID string) *Wizard {
	w := New(userID, m.coins, m.opts...)

	m.mu.Lock()
	prev := m.wizards[userID]
	m.wizards[userID] = w
	m.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return w
}

// Get returns the user's open wizard.
func (m *Manager) Get(userID string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wizards[userID]
	if !ok {
		return nil, fmt.Errorf("wizard for user %s: %w", userID, errs.ErrNotFound)
	}
	return w, nil
}

// Cancel closes and forgets the user's wizard. It reports whether one was open.
func (m *Manager) Cancel(userID string) bool {
	m.mu.Lock()
	w, ok := m.wizards[userID]
	delete(m.wizards, userID)
	m.mu.Unlock()

	if ok {
		w.Close()
	}
	return ok
}

// Close closes every open wizard.
func (m *Manager) Close() {
	m.mu.Lock()
	wizards := m.wizards
	m.wizards = make(map[string]*Wizard)
	m.mu.Unlock()

	for _, w := range wizards {
		w.Close()
	}
}
