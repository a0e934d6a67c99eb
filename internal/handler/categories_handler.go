package handler

import (
	"net/http"

	"github.com/dmatos/fintrack-api-go/internal/catalog"
	"github.com/dmatos/fintrack-api-go/internal/infra/observability"

	"go.uber.org/zap"
)

// ============================================================
// Categories and metrics
// ============================================================

// categoriesHandler serves the static category catalog. An optional
// type query parameter narrows the list to categories usable for that
// transaction type.
func categoriesHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /api/categories")
		defer span.End()

		txType := r.URL.Query().Get("type")
		if txType == "" {
			writeJSON(w, http.StatusOK, catalog.All())
			return
		}
		if txType != "income" && txType != "expense" {
			writeError(w, http.StatusBadRequest, "type must be income or expense")
			return
		}
		writeJSON(w, http.StatusOK, catalog.EligibleFor(txType))
	}
}

func ledgerMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /api/metrics/ledger")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.GetLedgerSnapshot())
	}
}
