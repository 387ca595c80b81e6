// Package wizard implements the coin onboarding flow as an explicit state
// machine over Step, driven by the transitions table.
//
// Step 4 (loading) and the wallet connection on step 5 are simulated delays
// scheduled on a clock.Clock. Once a Wizard is closed those callbacks are
// dropped and nothing is written.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/autorug/internal/clock"
	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/models"
)

// ErrClosed is returned by every operation on a closed Wizard.
var ErrClosed = errors.New("wizard closed")

// DashboardPath is where a finished wizard sends the user.
const DashboardPath = "/dashboard"

// DefaultLiquidity is the liquidity amount a new draft starts with, in SOL.
const DefaultLiquidity = 1.0

// Delays are the simulated latencies of the wizard.
type Delays struct {
	Creation  time.Duration
	WalletMin time.Duration
	WalletMax time.Duration
}

// DefaultDelays returns the production delays.
func DefaultDelays() Delays {
	return Delays{
		Creation:  3 * time.Second,
		WalletMin: 3 * time.Second,
		WalletMax: 4 * time.Second,
	}
}

// CoinCreator persists the coin a finished wizard produces.
// *ledger.Store implements it.
type CoinCreator interface {
	CreateCoin(ctx context.Context, coin *models.Coin) (*models.Transaction, error)
}

// Draft is the data collected so far.
type Draft struct {
	Name        string             `json:"name"`
	Image       string             `json:"image,omitempty"`
	Description string             `json:"description,omitempty"`
	SocialLinks models.SocialLinks `json:"socialLinks"`
	Platform    string             `json:"platform,omitempty"`

	WalletConnected bool   `json:"walletConnected"`
	WalletAddress   string `json:"walletAddress,omitempty"`

	LiquidityAmount float64 `json:"liquidityAmount"`
}

// State is a snapshot of a Wizard.
type State struct {
	Step       Step   `json:"step"`
	StepName   string `json:"stepName"`
	Draft      Draft  `json:"draft"`
	CanNext    bool   `json:"canNext"`
	CanBack    bool   `json:"canBack"`
	CanSkip    bool   `json:"canSkip"`
	Connecting bool   `json:"connecting"`
	Closed     bool   `json:"closed"`

	// Set once the wizard has finished.
	CoinID   string `json:"coinId,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Wizard walks one user through coin creation.
type Wizard struct {
	userID string
	coins  CoinCreator
	clock  clock.Clock
	rand   clock.Rand
	delays Delays

	mu         sync.Mutex
	step       Step
	draft      Draft
	connecting bool
	closed     bool
	coinID     string
	timers     map[clock.Timer]struct{}
	changed    chan struct{}
}

// Option configures a Wizard.
type Option func(*Wizard)

func WithClock(c clock.Clock) Option { return func(w *Wizard) { w.clock = c } }

func WithRand(r clock.Rand) Option { return func(w *Wizard) { w.rand = r } }

func WithDelays(d Delays) Option { return func(w *Wizard) { w.delays = d } }

// New starts a wizard on StepDetails for userID.
func New(userID string, coins CoinCreator, opts ...Option) *Wizard {
	w := &Wizard{
		userID:  userID,
		coins:   coins,
		clock:   clock.Real(),
		rand:    clock.GlobalRand(),
		delays:  DefaultDelays(),
		step:    StepDetails,
		draft:   Draft{LiquidityAmount: DefaultLiquidity},
		timers:  make(map[clock.Timer]struct{}),
		changed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// UserID returns the user the wizard creates a coin for.
func (w *Wizard) UserID() string { return w.userID }

// State returns a snapshot of the wizard.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Wizard) stateLocked() State {
	s := State{
		Step:       w.step,
		StepName:   w.step.String(),
		Draft:      w.draft,
		Connecting: w.connecting,
		Closed:     w.closed,
		CoinID:     w.coinID,
	}
	if !w.closed {
		s.CanNext = w.step.canNext(&w.draft) && !w.connecting
		s.CanBack = w.step.canBack() && !w.connecting
		s.CanSkip = w.step.canSkip()
	}
	if w.step == StepSuccess {
		s.Redirect = DashboardPath
	}
	return s
}

// broadcastLocked wakes every Wait call.
func (w *Wizard) broadcastLocked() {
	close(w.changed)
	w.changed = make(chan struct{})
}

func (w *Wizard) editLocked(step Step) error {
	if w.closed {
		return ErrClosed
	}
	if w.step != step {
		return errs.Validation("step", fmt.Sprintf("%s can only be edited on the %s step", step, step))
	}
	return nil
}

// SetDetails records the coin name, image and description.
func (w *Wizard) SetDetails(name, image, description string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editLocked(StepDetails); err != nil {
		return err
	}
	w.draft.Name = name
	w.draft.Image = image
	w.draft.Description = description
	w.broadcastLocked()
	return nil
}

// SetSocialLinks records the optional social links.
func (w *Wizard) SetSocialLinks(links models.SocialLinks) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editLocked(StepSocial); err != nil {
		return err
	}
	w.draft.SocialLinks = links
	w.broadcastLocked()
	return nil
}

// SetPlatform records the platform identifier. Unknown identifiers are stored
// and simply keep the step invalid.
func (w *Wizard) SetPlatform(platform string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editLocked(StepPlatform); err != nil {
		return err
	}
	w.draft.Platform = platform
	w.broadcastLocked()
	return nil
}

// SetLiquidity records the SOL amount to seed the coin with.
func (w *Wizard) SetLiquidity(amount float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editLocked(StepLiquidity); err != nil {
		return err
	}
	w.draft.LiquidityAmount = amount
	w.broadcastLocked()
	return nil
}

// Next moves forward if the current step is valid. On StepLiquidity it
// finishes the wizard by writing the coin to the ledger.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.connecting {
		return fmt.Errorf("wallet connection: %w", errs.ErrPending)
	}
	t := transitions[w.step]
	if !t.navigable || t.next == 0 {
		return errs.Validation("step", fmt.Sprintf("cannot advance from the %s step", w.step))
	}
	if !t.valid(&w.draft) {
		return errs.Validation(w.step.String(), invalidMessage(w.step))
	}

	if w.step == StepLiquidity {
		return w.finishLocked(ctx)
	}
	w.enterLocked(t.next)
	return nil
}

// Back moves to the previous step.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if !w.step.canBack() || w.connecting {
		return errs.Validation("step", fmt.Sprintf("cannot go back from the %s step", w.step))
	}
	w.enterLocked(transitions[w.step].back)
	return nil
}

// Skip leaves an optional step without validating it.
func (w *Wizard) Skip() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if !w.step.canSkip() {
		return errs.Validation("step", fmt.Sprintf("the %s step cannot be skipped", w.step))
	}
	w.enterLocked(transitions[w.step].next)
	return nil
}

func (w *Wizard) enterLocked(step Step) {
	slog.Debug("Wizard step", "user_id", w.userID, "from", w.step.String(), "to", step.String())
	w.step = step
	if step == StepLoading {
		w.scheduleLocked(w.delays.Creation, func() {
			if w.step == StepLoading {
				w.enterLocked(transitions[StepLoading].next)
			}
		})
	}
	w.broadcastLocked()
}

// scheduleLocked runs fn under the lock after d unless the wizard is closed first.
func (w *Wizard) scheduleLocked(d time.Duration, fn func()) {
	var t clock.Timer
	t = w.clock.AfterFunc(d, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.timers, t)
		if w.closed {
			return
		}
		fn()
	})
	w.timers[t] = struct{}{}
}

// ConnectWallet starts the simulated wallet connection. It returns at once;
// the draft shows the address when the connection completes.
func (w *Wizard) ConnectWallet() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.step != StepWallet {
		return errs.Validation("step", "a wallet can only be connected on the wallet step")
	}
	if w.connecting {
		return fmt.Errorf("wallet connection: %w", errs.ErrPending)
	}
	if w.draft.WalletConnected {
		return nil
	}

	w.connecting = true
	delay := clock.Between(w.rand, w.delays.WalletMin, w.delays.WalletMax)
	w.scheduleLocked(delay, func() {
		w.connecting = false
		w.draft.WalletAddress = FakeAddress(w.rand)
		w.draft.WalletConnected = true
		slog.Info("Wallet connected", "user_id", w.userID, "address", w.draft.WalletAddress)
		w.broadcastLocked()
	})
	w.broadcastLocked()
	return nil
}

func (w *Wizard) finishLocked(ctx context.Context) error {
	platform, _ := models.PlatformName(w.draft.Platform)
	image := strings.TrimSpace(w.draft.Image)
	if image == "" {
		image = models.DefaultCoinImage
	}

	coin := &models.Coin{
		UserID:     w.userID,
		Name:       strings.TrimSpace(w.draft.Name),
		Image:      image,
		Investment: w.draft.LiquidityAmount,
		Platform:   platform,
	}
	if !w.draft.SocialLinks.IsZero() {
		links := w.draft.SocialLinks
		coin.SocialLinks = &links
	}

	if _, err := w.coins.CreateCoin(ctx, coin); err != nil {
		return fmt.Errorf("failed to create coin: %w", err)
	}

	slog.Info("Coin launched",
		"user_id", w.userID,
		"coin_id", coin.ID,
		"name", coin.Name,
		"platform", coin.Platform,
		"investment", coin.Investment,
	)
	w.coinID = coin.ID
	w.enterLocked(StepSuccess)
	return nil
}

// Close stops pending simulations. Later calls fail with ErrClosed.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.connecting = false
	for t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[clock.Timer]struct{})
	w.broadcastLocked()
}

// Wait blocks until cond holds for the wizard's state, the wizard is closed,
// or ctx is done.
func (w *Wizard) Wait(ctx context.Context, cond func(State) bool) (State, error) {
	for {
		w.mu.Lock()
		s := w.stateLocked()
		changed := w.changed
		w.mu.Unlock()

		if cond(s) {
			return s, nil
		}
		if s.Closed {
			return s, ErrClosed
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// AwaitStep blocks until the wizard reaches step.
func (w *Wizard) AwaitStep(ctx context.Context, step Step) (State, error) {
	return w.Wait(ctx, func(s State) bool { return s.Step == step })
}

func invalidMessage(step Step) string {
	switch step {
	case StepDetails:
		return "coin name is required"
	case StepPlatform:
		return "choose raydium or pumpfun"
	case StepWallet:
		return "connect a wallet first"
	case StepLiquidity:
		return "liquidity amount must be greater than zero"
	default:
		return "step is incomplete"
	}
}
