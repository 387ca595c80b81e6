package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/autorug/internal/calculator"
	"github.com/mmynk/autorug/internal/dashboard"
	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/pkg/api"
)

// DashboardService implements the DashboardService RPC interface.
type DashboardService struct {
	dashboard *dashboard.Service
	logger    *slog.Logger
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(d *dashboard.Service, logger *slog.Logger) *DashboardService {
	return &DashboardService{dashboard: d, logger: logger}
}

// GetOverview returns the user's coins, history and analytics.
func (s *DashboardService) GetOverview(ctx context.Context, req *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	ov, err := s.dashboard.Overview(ctx, uid)
	if err != nil {
		s.logger.Error("Failed to load overview", "user_id", uid, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetOverviewResponse{
		Coins:        ov.Coins,
		Transactions: ov.Transactions,
		Summary:      ov.Summary,
	}), nil
}

// RemoveLiquidity withdraws from a coin by amount or preset. The call returns
// once the simulated delay has passed and the ledger is updated.
func (s *DashboardService) RemoveLiquidity(ctx context.Context, req *connect.Request[api.RemoveLiquidityRequest]) (*connect.Response[api.RemoveLiquidityResponse], error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.CoinID == "" {
		return nil, toConnectError(errs.Validation("coinId", "required"))
	}

	var w calculator.Withdrawal
	switch {
	case msg.Preset != "":
		w, err = s.dashboard.RemoveLiquidityPreset(ctx, uid, msg.CoinID, calculator.Preset(msg.Preset))
	case msg.Amount != nil:
		w, err = s.dashboard.RemoveLiquidity(ctx, uid, msg.CoinID, *msg.Amount)
	default:
		err = errs.Validation("amount", "enter an amount or choose a preset")
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.RemoveLiquidityResponse{Deleted: w.Deleted, Amount: w.Amount}
	if !w.Deleted {
		resp.Coin = &w.Coin
	}
	return connect.NewResponse(resp), nil
}

// GeneratePNL simulates new profit for all of the user's coins.
func (s *DashboardService) GeneratePNL(ctx context.Context, req *connect.Request[api.GeneratePNLRequest]) (*connect.Response[api.GeneratePNLResponse], error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	coins, err := s.dashboard.GeneratePNL(ctx, uid)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GeneratePNLResponse{Coins: coins}), nil
}

// DeleteTransaction removes an entry from the user's history.
func (s *DashboardService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.TransactionID == "" {
		return nil, toConnectError(errs.Validation("transactionId", "required"))
	}

	if err := s.dashboard.DeleteTransaction(ctx, uid, req.Msg.TransactionID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}
