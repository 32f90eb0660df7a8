package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vasavi/quotation/internal/app/config"
	apphttp "vasavi/quotation/internal/app/http"
	"vasavi/quotation/internal/domain/quote"
	"vasavi/quotation/internal/infra/db/postgres"
	"vasavi/quotation/internal/infra/db/sqlite"
)

// Run serves the quotation service until SIGINT or SIGTERM.
func Run(cfg config.Config) error {
	log := NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := store.EnsureCompany(ctx, quote.DefaultCompany); err != nil {
		return fmt.Errorf("seeding company: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apphttp.NewRouter(cfg, store, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// OpenStore returns the postgres store when DATABASE_URL is set and the
// SQLite store at SQLITE_PATH otherwise.
func OpenStore(ctx context.Context, cfg config.Config, log *slog.Logger) (quote.Store, io.Closer, error) {
	if cfg.UsePostgres() {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("db: %w", err)
		}
		log.Info("store: postgres")
		return db, db, nil
	}
	s, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	log.Info("store: sqlite", "path", cfg.SQLitePath)
	return s, s, nil
}
