package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/autorug/internal/auth"
	"github.com/mmynk/autorug/internal/dashboard"
	"github.com/mmynk/autorug/internal/metrics"
	"github.com/mmynk/autorug/internal/middleware"
	"github.com/mmynk/autorug/internal/wizard"
	"github.com/mmynk/autorug/pkg/api/apiconnect"
)

// Deps are the collaborators the RPC services are built from.
type Deps struct {
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Wizards       *wizard.Manager
	Dashboard     *dashboard.Service
	Metrics       *metrics.Metrics // optional
	Logger        *slog.Logger
}

// Register mounts every autorug.v1 service on mux. AuthService accepts
// anonymous calls; the other services require a Bearer token.
func Register(mux *http.ServeMux, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(d.Metrics),
		middleware.OptionalAuth(d.JWT),
		middleware.LoggingInterceptor(),
	)
	protected := connect.WithInterceptors(
		middleware.MetricsInterceptor(d.Metrics),
		middleware.RequireAuth(d.JWT),
		middleware.LoggingInterceptor(),
	)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		NewAuthService(d.Authenticator, d.JWT, logger), public)
	mux.Handle(authPath, authHandler)

	wizardPath, wizardHandler := apiconnect.NewWizardServiceHandler(
		NewWizardService(d.Wizards, d.Metrics, logger), protected)
	mux.Handle(wizardPath, wizardHandler)

	dashboardPath, dashboardHandler := apiconnect.NewDashboardServiceHandler(
		NewDashboardService(d.Dashboard, logger), protected)
	mux.Handle(dashboardPath, dashboardHandler)
}
