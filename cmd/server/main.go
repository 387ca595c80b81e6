package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/autorug/internal/auth"
	"github.com/mmynk/autorug/internal/config"
	"github.com/mmynk/autorug/internal/dashboard"
	"github.com/mmynk/autorug/internal/ledger"
	"github.com/mmynk/autorug/internal/metrics"
	"github.com/mmynk/autorug/internal/middleware"
	"github.com/mmynk/autorug/internal/notify"
	"github.com/mmynk/autorug/internal/service"
	"github.com/mmynk/autorug/internal/storage"
	"github.com/mmynk/autorug/internal/storage/backend"
	"github.com/mmynk/autorug/internal/wizard"
	"github.com/mmynk/autorug/pkg/logging"
)

func main() {
	cfg := config.MustLoad()
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.RequireJWTSecret(); err != nil {
		slog.Error("Invalid security configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	kv, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer kv.Close()

	m := metrics.New()
	hub := notify.NewHub(m)
	defer hub.Close()

	store := ledger.New(kv)
	store.OnChange(func() {
		m.LedgerChanged()
		hub.NotifyStorage()
	})

	wizards := wizard.NewManager(store, wizard.WithDelays(wizard.Delays{
		Creation:  cfg.Simulation.CreationDelay,
		WalletMin: cfg.Simulation.WalletDelayMin,
		WalletMax: cfg.Simulation.WalletDelayMax,
	}))
	defer wizards.Close()

	dash := dashboard.New(store,
		dashboard.WithMetrics(m),
		dashboard.WithDelays(dashboard.Delays{
			RemovalMin: cfg.Simulation.RemovalMin,
			RemovalMax: cfg.Simulation.RemovalMax,
		}),
	)

	mux := http.NewServeMux()
	service.Register(mux, service.Deps{
		Authenticator: auth.NewPasswordAuthenticator(storage.NewUserStore(kv), cfg.Security.BcryptCost),
		JWT:           auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL),
		Wizards:       wizards,
		Dashboard:     dash,
		Metrics:       m,
		Logger:        slog.Default(),
	})
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/ws", hub)

	staticHandler, err := staticFiles(cfg.HTTP.StaticPath)
	if err != nil {
		return err
	}
	mux.Handle("/", staticHandler)

	// h2c serves HTTP/2 without TLS, which Connect's gRPC protocol needs.
	handler := h2c.NewHandler(middleware.HTTPLogging(middleware.CORS(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr), "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()
	return srv.Shutdown(shutdownCtx)
}

// staticFiles serves the single-page frontend from dir. Unknown paths fall
// back to index.html so client-side routes like /dashboard load the app.
func staticFiles(dir string) (http.Handler, error) {
	staticDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/autorug.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}), nil
}
