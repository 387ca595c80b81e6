package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mmynk/autorug/internal/auth"
	"github.com/mmynk/autorug/internal/config"
	"github.com/mmynk/autorug/internal/dashboard"
	"github.com/mmynk/autorug/internal/ledger"
	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/storage"
	"github.com/mmynk/autorug/internal/storage/backend"
	"github.com/mmynk/autorug/internal/wizard"
	"github.com/mmynk/autorug/pkg/logging"
)

var errSignedOut = errors.New("not signed in, run 'autorug login' first")

// app is everything a command needs, opened once per invocation.
type app struct {
	kv        storage.KV
	session   *auth.Session
	ledger    *ledger.Store
	dashboard *dashboard.Service
	wizard    []wizard.Option
	out       io.Writer
}

// openApp is replaced in tests.
var openApp = func(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	kv, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	a := newApp(kv, os.Stdout, cfg.Security.BcryptCost,
		[]wizard.Option{wizard.WithDelays(wizard.Delays{
			Creation:  cfg.Simulation.CreationDelay,
			WalletMin: cfg.Simulation.WalletDelayMin,
			WalletMax: cfg.Simulation.WalletDelayMax,
		})},
		dashboard.WithDelays(dashboard.Delays{
			RemovalMin: cfg.Simulation.RemovalMin,
			RemovalMax: cfg.Simulation.RemovalMax,
		}),
	)
	if err := a.session.Load(ctx); err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return a, nil
}

func newApp(kv storage.KV, out io.Writer, bcryptCost int, wizardOpts []wizard.Option, dashOpts ...dashboard.Option) *app {
	store := ledger.New(kv)
	return &app{
		kv:        kv,
		session:   auth.NewSession(kv, auth.NewPasswordAuthenticator(storage.NewUserStore(kv), bcryptCost)),
		ledger:    store,
		dashboard: dashboard.New(store, dashOpts...),
		wizard:    wizardOpts,
		out:       out,
	}
}

func (a *app) Close() error { return a.kv.Close() }

// user returns the signed-in user or errSignedOut.
func (a *app) user() (*models.User, error) {
	u := a.session.CurrentUser()
	if u == nil {
		return nil, errSignedOut
	}
	return u, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
