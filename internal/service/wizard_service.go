package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/metrics"
	"github.com/mmynk/autorug/internal/wizard"
	"github.com/mmynk/autorug/pkg/api"
)

// WizardService implements the WizardService RPC interface.
type WizardService struct {
	wizards *wizard.Manager
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewWizardService creates a wizard service. m may be nil.
func NewWizardService(wizards *wizard.Manager, m *metrics.Metrics, logger *slog.Logger) *WizardService {
	return &WizardService{wizards: wizards, metrics: m, logger: logger}
}

func wizardResponse(w *wizard.Wizard) *connect.Response[api.WizardResponse] {
	return connect.NewResponse(&api.WizardResponse{State: w.State()})
}

func (s *WizardService) current(ctx context.Context) (*wizard.Wizard, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.wizards.Get(uid)
	if err != nil {
		return nil, toConnectError(err)
	}
	return w, nil
}

// StartWizard opens a fresh wizard, discarding any unfinished one.
func (s *WizardService) StartWizard(ctx context.Context, req *connect.Request[api.StartWizardRequest]) (*connect.Response[api.WizardResponse], error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Wizard started", "user_id", uid)
	return wizardResponse(s.wizards.Start(uid)), nil
}

// GetWizard returns the state of the user's open wizard.
func (s *WizardService) GetWizard(ctx context.Context, req *connect.Request[api.GetWizardRequest]) (*connect.Response[api.WizardResponse], error) {
	w, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return wizardResponse(w), nil
}

// UpdateWizard sets the input of the current step.
func (s *WizardService) UpdateWizard(ctx context.Context, req *connect.Request[api.UpdateWizardRequest]) (*connect.Response[api.WizardResponse], error) {
	w, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	switch {
	case msg.Details != nil:
		err = w.SetDetails(msg.Details.Name, msg.Details.Image, msg.Details.Description)
	case msg.SocialLinks != nil:
		err = w.SetSocialLinks(*msg.SocialLinks)
	case msg.Platform != nil:
		err = w.SetPlatform(*msg.Platform)
	case msg.LiquidityAmount != nil:
		err = w.SetLiquidity(*msg.LiquidityAmount)
	default:
		err = errs.Validation("", "nothing to update")
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return wizardResponse(w), nil
}

// Advance moves the wizard next, back or past an optional step. Next on the
// liquidity step finishes the wizard and creates the coin.
func (s *WizardService) Advance(ctx context.Context, req *connect.Request[api.AdvanceRequest]) (*connect.Response[api.WizardResponse], error) {
	w, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	switch req.Msg.Action {
	case api.ActionNext, "":
		err = w.Next(ctx)
	case api.ActionBack:
		err = w.Back()
	case api.ActionSkip:
		err = w.Skip()
	default:
		err = errs.Validation("action", fmt.Sprintf("unknown action %q", req.Msg.Action))
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	state := w.State()
	if state.Step == wizard.StepSuccess {
		s.metrics.CoinCreated(state.Draft.LiquidityAmount)
		s.logger.Info("Wizard finished", "user_id", w.UserID(), "coin_id", state.CoinID)
	}
	if req.Msg.Wait && state.Step == wizard.StepLoading {
		if _, err := w.Wait(ctx, func(st wizard.State) bool { return st.Step != wizard.StepLoading }); err != nil {
			return nil, toConnectError(err)
		}
	}
	return wizardResponse(w), nil
}

// ConnectWallet starts the simulated wallet connection.
func (s *WizardService) ConnectWallet(ctx context.Context, req *connect.Request[api.ConnectWalletRequest]) (*connect.Response[api.WizardResponse], error) {
	w, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if err := w.ConnectWallet(); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Wait {
		if _, err := w.Wait(ctx, func(st wizard.State) bool { return !st.Connecting }); err != nil {
			return nil, toConnectError(err)
		}
	}
	return wizardResponse(w), nil
}

// CancelWizard closes the user's wizard. Pending simulations are dropped.
func (s *WizardService) CancelWizard(ctx context.Context, req *connect.Request[api.CancelWizardRequest]) (*connect.Response[api.CancelWizardResponse], error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	cancelled := s.wizards.Cancel(uid)
	s.logger.Info("Wizard cancelled", "user_id", uid, "was_open", cancelled)
	return connect.NewResponse(&api.CancelWizardResponse{Cancelled: cancelled}), nil
}
