package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/catalog"
	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/infra/observability"
	"github.com/dmatos/fintrack-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var summaryTracer = otel.Tracer("service/summary")

// SummaryService aggregates a user's transactions into monthly reports.
// Summaries are always computed from the live transaction set, never cached,
// so a report immediately reflects every create, update and delete.
type SummaryService struct {
	store   port.TransactionStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSummaryService creates a new summary service.
func NewSummaryService(store port.TransactionStore, metrics *observability.Metrics, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// MonthlySummary — GET /api/transactions/monthly-summary
// ============================================================

// MonthlySummary reports the owner's income and expense totals for one
// calendar month (UTC), broken down by category. Months are half-open
// intervals: the first instant of the month up to but excluding the first
// instant of the next.
func (s *SummaryService) MonthlySummary(ctx context.Context, ownerID string, month, year int) (*domain.MonthlySummary, error) {
	ctx, span := summaryTracer.Start(ctx, "SummaryService.MonthlySummary")
	defer span.End()
	span.SetAttributes(
		attribute.String("owner.id", ownerID),
		attribute.Int("month", month),
		attribute.Int("year", year),
	)

	if month < 1 || month > 12 {
		return nil, &domain.ErrValidation{Field: "month", Message: "month must be between 1 and 12"}
	}
	if year < 1 {
		return nil, &domain.ErrValidation{Field: "year", Message: "year is required"}
	}

	transactions, err := s.store.ListTransactions(ctx, ownerID)
	if err != nil {
		s.metrics.IncrStoreError("transactions")
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	income := newGroupAccumulator()
	expense := newGroupAccumulator()

	for _, tx := range transactions {
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}
		switch tx.Type {
		case domain.TypeIncome:
			income.add(tx)
		case domain.TypeExpense:
			expense.add(tx)
		}
	}

	summary := &domain.MonthlySummary{
		Month:   month,
		Year:    year,
		Income:  income.group(),
		Expense: expense.group(),
	}
	summary.Balance = summary.Income.Total + summary.Expense.Total

	s.metrics.IncrSummaryComputed()
	s.logger.Debug("summary: computed",
		zap.String("owner_id", ownerID),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Float64("balance", summary.Balance),
	)

	return summary, nil
}

// Percentage returns a category's rounded share of its group total.
// A zero group yields 0 rather than dividing by zero.
func Percentage(categoryTotal, groupTotal float64) int {
	if groupTotal == 0 {
		return 0
	}
	return int(math.Round(100 * math.Abs(categoryTotal) / math.Abs(groupTotal)))
}

type groupAccumulator struct {
	total  float64
	totals map[string]float64
	counts map[string]int
}

func newGroupAccumulator() *groupAccumulator {
	return &groupAccumulator{
		totals: make(map[string]float64),
		counts: make(map[string]int),
	}
}

func (g *groupAccumulator) add(tx domain.Transaction) {
	g.total += tx.Amount
	g.totals[tx.Category] += tx.Amount
	g.counts[tx.Category]++
}

// group materializes the accumulated totals, ordered by absolute total
// descending with category id as the tiebreaker.
func (g *groupAccumulator) group() domain.SummaryGroup {
	categories := make([]domain.CategoryTotal, 0, len(g.totals))
	for id, total := range g.totals {
		ct := domain.CategoryTotal{
			Category: id,
			Total:    total,
			Count:    g.counts[id],
		}
		if entry, err := catalog.Resolve(id); err == nil {
			ct.Name = entry.Name
			ct.Icon = entry.Icon
			ct.Color = entry.Color
		}
		categories = append(categories, ct)
	}

	sort.Slice(categories, func(i, j int) bool {
		ai, aj := math.Abs(categories[i].Total), math.Abs(categories[j].Total)
		if ai != aj {
			return ai > aj
		}
		return categories[i].Category < categories[j].Category
	})

	return domain.SummaryGroup{Total: g.total, Categories: categories}
}
