package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finledger/internal/config"
	"finledger/internal/handlers"
	"finledger/internal/logger"
	"finledger/internal/metrics"
	"finledger/internal/services"
	"finledger/internal/websocket"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, log, openBackend)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

// run serves the API until ctx ends or the listener fails. The backend is
// closed before run returns on every path.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger, open func(config.Config) (backend, error)) error {
	store, err := open(cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	hub := websocket.NewHub()
	collector := metrics.NewCollector()
	collector.TrackConnections(hub.Connections)

	accounts := services.NewAccountService(store.txRunner, store.accounts)
	categories := services.NewCategoryService(store.txRunner, store.categories)
	transactions := services.NewTransactionService(
		store.txRunner,
		store.accounts,
		store.categories,
		store.transactions,
		services.NewSummaryGenerators(store.transactions),
		changeFeed{hub: hub, metrics: collector},
	)

	handler := handlers.New(cfg, accounts, categories, transactions, hub, collector, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("backend", cfg.StorageBackend).Msg("finledger API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
