package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/logger"
	"github.com/vendora/vendora/internal/notify"
	"github.com/vendora/vendora/internal/state"
)

// Currency used for all storefront amounts.
const currency = "VND"

type Globals struct {
	Debug   bool
	Version string
}

// clientFlags are shared by every command that talks to the API.
type clientFlags struct {
	Server   string `help:"Storefront API URL" env:"VENDORA_SERVER" default:"http://localhost:8080"`
	StateDir string `help:"Custom session state directory" env:"VENDORA_STATE_DIR"`
	CacheDir string `help:"Catalog cache directory (empty caches in memory only)"`
}

// newClient builds the API client from the shared flags.
func (f clientFlags) newClient(globals *Globals) (*api.Client, error) {
	log := logger.Setup(globals.Debug)

	client, err := api.NewClient(api.Config{
		BaseURL:  f.Server,
		Timeout:  30 * time.Second,
		CacheDir: f.CacheDir,
		Debug:    globals.Debug,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, nil
}

// newStore wires the full session state store and hydrates it: persisted
// session, catalog, and server reconciliation when a token exists.
func (f clientFlags) newStore(ctx context.Context, globals *Globals) (*state.Store, error) {
	client, err := f.newClient(globals)
	if err != nil {
		return nil, err
	}

	persist, err := state.NewFileStore(f.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	store, err := state.New(state.Config{
		Client:      client,
		Persistence: persist,
		Notifier:    notify.NewConsole(nil),
		Logger:      logger.Setup(globals.Debug),
		OnSessionEnd: func(reason state.EndReason) {
			if reason != state.EndLogout {
				fmt.Println("Run 'vendora-cli login' to sign in again.")
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create state store: %w", err)
	}

	store.Initialize(ctx)
	return store, nil
}

// money renders an amount in the storefront currency.
func money(amount decimal.Decimal) string {
	return amount.StringFixed(0) + " " + currency
}
