package handlers

import (
	"net/http"

	"finledger/internal/config"
	"finledger/internal/metrics"
	"finledger/internal/middleware"
	"finledger/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type Handler struct {
	cfg          config.Config
	accounts     AccountService
	categories   CategoryService
	transactions TransactionService
	hub          *websocket.Hub
	metrics      *metrics.Collector
	log          zerolog.Logger
}

func New(cfg config.Config, accounts AccountService, categories CategoryService, transactions TransactionService, hub *websocket.Hub, collector *metrics.Collector, log zerolog.Logger) *Handler {
	return &Handler{
		cfg:          cfg,
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		hub:          hub,
		metrics:      collector,
		log:          log,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestLogger(h.log))
	router.Use(middleware.Metrics(h.metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Get("/{id}", h.GetAccount)
			r.Patch("/{id}", h.PatchAccount)
			r.Delete("/{id}", h.DeleteAccount)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Get("/{id}", h.GetCategory)
			r.Patch("/{id}", h.PatchCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.AddTransaction)
			r.Get("/summary", h.TransactionSummary)
			r.Get("/{id}", h.GetTransaction)
			r.Patch("/{id}", h.PatchTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})
	})
	router.Get("/ws/transactions", h.WSTransactions)
	router.Handle("/metrics", h.metrics.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
