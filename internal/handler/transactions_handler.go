package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/infra/observability"
	"github.com/dmatos/fintrack-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Transactions
// ============================================================

func listTransactionsHandler(svc *service.LedgerService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/transactions")
		defer span.End()

		user := UserFromContext(ctx)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		start := time.Now()
		list, err := svc.List(ctx, user.ID)
		metrics.RecordRequestDuration("list_transactions", time.Since(start))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func createTransactionHandler(svc *service.LedgerService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/transactions")
		defer span.End()

		user := UserFromContext(ctx)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req domain.CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		start := time.Now()
		tx, err := svc.Create(ctx, user.ID, &req)
		metrics.RecordRequestDuration("create_transaction", time.Since(start))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, tx)
	}
}

func updateTransactionHandler(svc *service.LedgerService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /api/transactions/{id}")
		defer span.End()

		user := UserFromContext(ctx)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "transaction id is required")
			return
		}
		span.SetAttributes(attribute.String("transaction.id", id))

		var req domain.UpdateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		start := time.Now()
		tx, err := svc.Update(ctx, user.ID, id, &req)
		metrics.RecordRequestDuration("update_transaction", time.Since(start))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, tx)
	}
}

func deleteTransactionHandler(svc *service.LedgerService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /api/transactions/{id}")
		defer span.End()

		user := UserFromContext(ctx)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "transaction id is required")
			return
		}
		span.SetAttributes(attribute.String("transaction.id", id))

		start := time.Now()
		err := svc.Delete(ctx, user.ID, id)
		metrics.RecordRequestDuration("delete_transaction", time.Since(start))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Transaction removed"})
	}
}

// ============================================================
// Monthly summary
// ============================================================

func monthlySummaryHandler(svc *service.SummaryService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/transactions/monthly-summary")
		defer span.End()

		user := UserFromContext(ctx)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		month, year := parseMonthYear(r)
		span.SetAttributes(
			attribute.Int("month", month),
			attribute.Int("year", year),
		)

		start := time.Now()
		summary, err := svc.MonthlySummary(ctx, user.ID, month, year)
		metrics.RecordRequestDuration("monthly_summary", time.Since(start))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}
