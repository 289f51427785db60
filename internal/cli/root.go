// Package cli implements the pulso command line: the serve daemon plus
// local administration of users, the catalog, and transaction history.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulso-app/pulso/internal/app/catalog"
	"github.com/pulso-app/pulso/internal/app/directory"
	"github.com/pulso-app/pulso/internal/app/ledger"
	"github.com/pulso-app/pulso/internal/daemon"
	"github.com/pulso-app/pulso/internal/infra/sqlite"
)

var (
	flagConfig  string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "pulso",
	Short: "Event balance ledger",
	Long: `Pulso is a point-of-sale balance ledger for events: users carry a
prepaid balance identified by phone number or QR code, and staff terminals
recharge it (entry experiences), debit it (bar and merch purchases), or
record donations to gallery works. Every attempt, successful or failed,
lands in an immutable transaction history.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.toml (default: <data-dir>/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory override")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (daemon.Config, error) {
	cfg, err := daemon.LoadConfig(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.Storage.DataDir = flagDataDir
	}
	return cfg, nil
}

// withServices opens the store for a one-shot admin command and hands the
// wired services to fn.
func withServices(fn func(ctx context.Context, app *services) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	app := &services{
		engine:  ledger.New(db),
		history: ledger.NewHistory(db),
		users:   directory.New(db, cfg.Event.BaseURL),
		catalog: catalog.New(db),
	}
	return fn(context.Background(), app)
}

type services struct {
	engine  *ledger.Engine
	history *ledger.History
	users   *directory.Service
	catalog *catalog.Service
}
