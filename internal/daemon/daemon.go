package daemon

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulso-app/pulso/internal/api"
	"github.com/pulso-app/pulso/internal/app/catalog"
	"github.com/pulso-app/pulso/internal/app/directory"
	"github.com/pulso-app/pulso/internal/app/ledger"
	"github.com/pulso-app/pulso/internal/infra/sqlite"
)

// Run opens the store, wires the services, and serves the HTTP API until
// SIGINT/SIGTERM.
func Run(cfg Config) error {
	db, err := sqlite.Open(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Printf("store ready at %s", db.Path())

	engine := ledger.New(db)
	history := ledger.NewHistory(db)
	users := directory.New(db, cfg.Event.BaseURL)
	cat := catalog.New(db)

	srv := api.NewServer(engine, history, users, cat)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("pulso API listening on http://%s", cfg.ListenAddr())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
