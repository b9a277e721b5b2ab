package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/loanledger/internal/adapter/http/handler"
	"github.com/iho/loanledger/internal/adapter/http/middleware"
	"github.com/iho/loanledger/internal/infrastructure/auth"
	"github.com/iho/loanledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LoanHandler       *handler.LoanHandler
	StakingHandler    *handler.StakingHandler
	GovernanceHandler *handler.GovernanceHandler
	AdminHandler      *handler.AdminHandler
	EventHandler      *handler.EventHandler
	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler

	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.AuthHandler != nil {
		r.Post("/auth/token", cfg.AuthHandler.Token)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(cfg.JWTManager).Wrap)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Administration
		r.Route("/admin", func(r chi.Router) {
			r.Post("/pause", cfg.AdminHandler.TogglePause)
			r.Put("/lenders", cfg.AdminHandler.SetLender)
			r.Put("/borrower-limits", cfg.AdminHandler.SetBorrowerLimit)
		})
		r.Get("/stats", cfg.AdminHandler.GetStats)

		// Staking
		r.Route("/stakes", func(r chi.Router) {
			r.Post("/", cfg.StakingHandler.Deposit)
			r.Post("/withdrawals", cfg.StakingHandler.Withdraw)
			r.Get("/", cfg.StakingHandler.GetPool)
			r.Get("/{id}", cfg.StakingHandler.Get)
		})

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Get("/{id}/amounts", cfg.LoanHandler.GetAmounts)
			r.Post("/{id}/payments", cfg.LoanHandler.Pay)
			r.Post("/{id}/extension", cfg.LoanHandler.Extend)
			r.Post("/{id}/rate", cfg.LoanHandler.Renegotiate)
			r.Post("/{id}/cancellation", cfg.LoanHandler.Cancel)
			r.Post("/{id}/default", cfg.LoanHandler.Default)
		})

		// Pull payments
		r.Post("/withdrawals", cfg.LoanHandler.Withdraw)
		r.Get("/balances/{id}", cfg.LoanHandler.GetBalance)

		// Governance
		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", cfg.GovernanceHandler.Propose)
			r.Get("/{id}", cfg.GovernanceHandler.Get)
			r.Post("/{id}/votes", cfg.GovernanceHandler.Vote)
			r.Get("/{id}/votes/{caller}", cfg.GovernanceHandler.GetVote)
			r.Post("/{id}/finalization", cfg.GovernanceHandler.Finalize)
		})

		// Event feed
		r.Get("/events", cfg.EventHandler.List)
	})

	return r
}
