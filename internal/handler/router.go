package handler

import (
	"net/http"

	"github.com/dmatos/fintrack-api-go/internal/infra/observability"
	"github.com/dmatos/fintrack-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(
	authSvc *service.AuthService,
	ledgerSvc *service.LedgerService,
	summarySvc *service.SummaryService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API ---
	r.Route("/api", func(r chi.Router) {

		// =============================================
		// Authentication
		// POST /api/auth/register
		// POST /api/auth/login
		// GET  /api/auth/profile (protected)
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/login", authLoginHandler(authSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Get("/profile", authProfileHandler(logger))
			})
		})

		// =============================================
		// Categories (public, static catalog)
		// GET /api/categories
		// =============================================
		r.Get("/categories", categoriesHandler(logger))

		// =============================================
		// Ledger metrics snapshot
		// GET /api/metrics/ledger
		// =============================================
		r.Get("/metrics/ledger", ledgerMetricsHandler(metrics, logger))

		// =============================================
		// Transactions (protected)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			r.Get("/transactions", listTransactionsHandler(ledgerSvc, metrics, logger))
			r.Post("/transactions", createTransactionHandler(ledgerSvc, metrics, logger))
			r.Get("/transactions/monthly-summary", monthlySummaryHandler(summarySvc, metrics, logger))
			r.Put("/transactions/{id}", updateTransactionHandler(ledgerSvc, metrics, logger))
			r.Delete("/transactions/{id}", deleteTransactionHandler(ledgerSvc, metrics, logger))
		})
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
