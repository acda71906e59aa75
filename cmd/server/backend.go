package main

import (
	"fmt"

	"finledger/internal/config"
	"finledger/internal/db"
	"finledger/internal/metrics"
	"finledger/internal/services"
	"finledger/internal/store"
	"finledger/internal/store/memstore"
	"finledger/internal/websocket"
)

type transactionBackend interface {
	services.TransactionStore
	services.SummaryStore
}

// backend is one storage implementation with the tx runner that matches it.
type backend struct {
	txRunner     db.TxRunner
	accounts     services.AccountStore
	categories   services.CategoryStore
	transactions transactionBackend
	close        func() error
}

func openBackend(cfg config.Config) (backend, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		mem := memstore.New()
		return backend{
			txRunner:     mem,
			accounts:     mem.Accounts(),
			categories:   mem.Categories(),
			transactions: mem.Transactions(),
			close:        func() error { return nil },
		}, nil
	case config.BackendPostgres:
		database, err := db.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns)
		if err != nil {
			return backend{}, fmt.Errorf("connect database: %w", err)
		}
		return backend{
			txRunner:     db.NewTxRunner(database),
			accounts:     store.NewAccountStore(database),
			categories:   store.NewCategoryStore(database),
			transactions: store.NewTransactionStore(database),
			close:        database.Close,
		}, nil
	default:
		return backend{}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// changeFeed counts committed transaction changes and fans them out to the
// owner's websocket clients.
type changeFeed struct {
	hub     *websocket.Hub
	metrics *metrics.Collector
}

func (f changeFeed) BroadcastTransaction(userID string, event websocket.TransactionEvent) {
	f.metrics.RecordTransactionChange(string(event.Kind))
	f.hub.BroadcastTransaction(userID, event)
}
