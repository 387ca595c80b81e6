package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/autorug/pkg/api"
)

const WizardServiceName = "autorug.v1.WizardService"

const (
	WizardServiceStartWizardProcedure   = "/autorug.v1.WizardService/StartWizard"
	WizardServiceGetWizardProcedure     = "/autorug.v1.WizardService/GetWizard"
	WizardServiceUpdateWizardProcedure  = "/autorug.v1.WizardService/UpdateWizard"
	WizardServiceAdvanceProcedure       = "/autorug.v1.WizardService/Advance"
	WizardServiceConnectWalletProcedure = "/autorug.v1.WizardService/ConnectWallet"
	WizardServiceCancelWizardProcedure  = "/autorug.v1.WizardService/CancelWizard"
)

// WizardServiceHandler is implemented by the server side of autorug.v1.WizardService.
type WizardServiceHandler interface {
	StartWizard(context.Context, *connect.Request[api.StartWizardRequest]) (*connect.Response[api.WizardResponse], error)
	GetWizard(context.Context, *connect.Request[api.GetWizardRequest]) (*connect.Response[api.WizardResponse], error)
	UpdateWizard(context.Context, *connect.Request[api.UpdateWizardRequest]) (*connect.Response[api.WizardResponse], error)
	Advance(context.Context, *connect.Request[api.AdvanceRequest]) (*connect.Response[api.WizardResponse], error)
	ConnectWallet(context.Context, *connect.Request[api.ConnectWalletRequest]) (*connect.Response[api.WizardResponse], error)
	CancelWizard(context.Context, *connect.Request[api.CancelWizardRequest]) (*connect.Response[api.CancelWizardResponse], error)
}

// NewWizardServiceHandler returns the path to mount the service at and its handler.
func NewWizardServiceHandler(svc WizardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		WizardServiceStartWizardProcedure:   connect.NewUnaryHandler(WizardServiceStartWizardProcedure, svc.StartWizard, opts...),
		WizardServiceGetWizardProcedure:     connect.NewUnaryHandler(WizardServiceGetWizardProcedure, svc.GetWizard, opts...),
		WizardServiceUpdateWizardProcedure:  connect.NewUnaryHandler(WizardServiceUpdateWizardProcedure, svc.UpdateWizard, opts...),
		WizardServiceAdvanceProcedure:       connect.NewUnaryHandler(WizardServiceAdvanceProcedure, svc.Advance, opts...),
		WizardServiceConnectWalletProcedure: connect.NewUnaryHandler(WizardServiceConnectWalletProcedure, svc.ConnectWallet, opts...),
		WizardServiceCancelWizardProcedure:  connect.NewUnaryHandler(WizardServiceCancelWizardProcedure, svc.CancelWizard, opts...),
	}
	return serviceHandler(WizardServiceName, routes)
}

// WizardServiceClient is a client for autorug.v1.WizardService.
type WizardServiceClient struct {
	startWizard   *connect.Client[api.StartWizardRequest, api.WizardResponse]
	getWizard     *connect.Client[api.GetWizardRequest, api.WizardResponse]
	updateWizard  *connect.Client[api.UpdateWizardRequest, api.WizardResponse]
	advance       *connect.Client[api.AdvanceRequest, api.WizardResponse]
	connectWallet *connect.Client[api.ConnectWalletRequest, api.WizardResponse]
	cancelWizard  *connect.Client[api.CancelWizardRequest, api.CancelWizardResponse]
}

// NewWizardServiceClient constructs a client for the service at baseURL.
func NewWizardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *WizardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &WizardServiceClient{
		startWizard:   connect.NewClient[api.StartWizardRequest, api.WizardResponse](httpClient, baseURL+WizardServiceStartWizardProcedure, opts...),
		getWizard:     connect.NewClient[api.GetWizardRequest, api.WizardResponse](httpClient, baseURL+WizardServiceGetWizardProcedure, opts...),
		updateWizard:  connect.NewClient[api.UpdateWizardRequest, api.WizardResponse](httpClient, baseURL+WizardServiceUpdateWizardProcedure, opts...),
		advance:       connect.NewClient[api.AdvanceRequest, api.WizardResponse](httpClient, baseURL+WizardServiceAdvanceProcedure, opts...),
		connectWallet: connect.NewClient[api.ConnectWalletRequest, api.WizardResponse](httpClient, baseURL+WizardServiceConnectWalletProcedure, opts...),
		cancelWizard:  connect.NewClient[api.CancelWizardRequest, api.CancelWizardResponse](httpClient, baseURL+WizardServiceCancelWizardProcedure, opts...),
	}
}

func (c *WizardServiceClient) StartWizard(ctx context.Context, req *connect.Request[api.StartWizardRequest]) (*connect.Response[api.WizardResponse], error) {
	return c.startWizard.CallUnary(ctx, req)
}

func (c *WizardServiceClient) GetWizard(ctx context.Context, req *connect.Request[api.GetWizardRequest]) (*connect.Response[api.WizardResponse], error) {
	return c.getWizard.CallUnary(ctx, req)
}

func (c *WizardServiceClient) UpdateWizard(ctx context.Context, req *connect.Request[api.UpdateWizardRequest]) (*connect.Response[api.WizardResponse], error) {
	return c.updateWizard.CallUnary(ctx, req)
}

func (c *WizardServiceClient) Advance(ctx context.Context, req *connect.Request[api.AdvanceRequest]) (*connect.Response[api.WizardResponse], error) {
	return c.advance.CallUnary(ctx, req)
}

func (c *WizardServiceClient) ConnectWallet(ctx context.Context, req *connect.Request[api.ConnectWalletRequest]) (*connect.Response[api.WizardResponse], error) {
	return c.connectWallet.CallUnary(ctx, req)
}

func (c *WizardServiceClient) CancelWizard(ctx context.Context, req *connect.Request[api.CancelWizardRequest]) (*connect.Response[api.CancelWizardResponse], error) {
	return c.cancelWizard.CallUnary(ctx, req)
}
