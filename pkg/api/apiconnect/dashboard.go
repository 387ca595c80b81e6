package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/autorug/pkg/api"
)

const DashboardServiceName = "autorug.v1.DashboardService"

const (
	DashboardServiceGetOverviewProcedure       = "/autorug.v1.DashboardService/GetOverview"
	DashboardServiceRemoveLiquidityProcedure   = "/autorug.v1.DashboardService/RemoveLiquidity"
	DashboardServiceGeneratePNLProcedure       = "/autorug.v1.DashboardService/GeneratePNL"
	DashboardServiceDeleteTransactionProcedure = "/autorug.v1.DashboardService/DeleteTransaction"
)

// DashboardServiceHandler is implemented by the server side of autorug.v1.DashboardService.
type DashboardServiceHandler interface {
	GetOverview(context.Context, *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error)
	RemoveLiquidity(context.Context, *connect.Request[api.RemoveLiquidityRequest]) (*connect.Response[api.RemoveLiquidityResponse], error)
	GeneratePNL(context.Context, *connect.Request[api.GeneratePNLRequest]) (*connect.Response[api.GeneratePNLResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewDashboardServiceHandler returns the path to mount the service at and its handler.
func NewDashboardServiceHandler(svc DashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		DashboardServiceGetOverviewProcedure:       connect.NewUnaryHandler(DashboardServiceGetOverviewProcedure, svc.GetOverview, opts...),
		DashboardServiceRemoveLiquidityProcedure:   connect.NewUnaryHandler(DashboardServiceRemoveLiquidityProcedure, svc.RemoveLiquidity, opts...),
		DashboardServiceGeneratePNLProcedure:       connect.NewUnaryHandler(DashboardServiceGeneratePNLProcedure, svc.GeneratePNL, opts...),
		DashboardServiceDeleteTransactionProcedure: connect.NewUnaryHandler(DashboardServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...),
	}
	return serviceHandler(DashboardServiceName, routes)
}

// DashboardServiceClient is a client for autorug.v1.DashboardService.
type DashboardServiceClient struct {
	getOverview       *connect.Client[api.GetOverviewRequest, api.GetOverviewResponse]
	removeLiquidity   *connect.Client[api.RemoveLiquidityRequest, api.RemoveLiquidityResponse]
	generatePNL       *connect.Client[api.GeneratePNLRequest, api.GeneratePNLResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
}

// NewDashboardServiceClient constructs a client for the service at baseURL.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DashboardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &DashboardServiceClient{
		getOverview:       connect.NewClient[api.GetOverviewRequest, api.GetOverviewResponse](httpClient, baseURL+DashboardServiceGetOverviewProcedure, opts...),
		removeLiquidity:   connect.NewClient[api.RemoveLiquidityRequest, api.RemoveLiquidityResponse](httpClient, baseURL+DashboardServiceRemoveLiquidityProcedure, opts...),
		generatePNL:       connect.NewClient[api.GeneratePNLRequest, api.GeneratePNLResponse](httpClient, baseURL+DashboardServiceGeneratePNLProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+DashboardServiceDeleteTransactionProcedure, opts...),
	}
}

func (c *DashboardServiceClient) GetOverview(ctx context.Context, req *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error) {
	return c.getOverview.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) RemoveLiquidity(ctx context.Context, req *connect.Request[api.RemoveLiquidityRequest]) (*connect.Response[api.RemoveLiquidityResponse], error) {
	return c.removeLiquidity.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) GeneratePNL(ctx context.Context, req *connect.Request[api.GeneratePNLRequest]) (*connect.Response[api.GeneratePNLResponse], error) {
	return c.generatePNL.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}
