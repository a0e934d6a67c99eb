package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/infra/memory"
	"github.com/dmatos/fintrack-api-go/internal/infra/observability"
	"github.com/dmatos/fintrack-api-go/internal/service"

	"go.uber.org/zap"
)

func newSummaryFixture() (*service.LedgerService, *service.SummaryService) {
	store := memory.NewStore()
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	return service.NewLedgerService(store, metrics, logger),
		service.NewSummaryService(store, metrics, logger)
}

func seed(t *testing.T, ledger *service.LedgerService, owner, title string, amount float64, txType, category string, date time.Time) {
	t.Helper()
	_, err := ledger.Create(context.Background(), owner, &domain.CreateTransactionRequest{
		Title:    title,
		Amount:   amount,
		Type:     txType,
		Category: category,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", title, err)
	}
}

func TestMonthlySummaryTotalsAndBalance(t *testing.T) {
	ledger, summaries := newSummaryFixture()
	aug := func(day int) time.Time { return time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC) }

	seed(t, ledger, "user-1", "Paycheck", 3000, domain.TypeIncome, "salary", aug(1))
	seed(t, ledger, "user-1", "Groceries", 400, domain.TypeExpense, "food", aug(5))
	seed(t, ledger, "user-1", "Rent", 1200, domain.TypeExpense, "housing", aug(2))
	// A different month and a different owner, both excluded.
	seed(t, ledger, "user-1", "July rent", 1200, domain.TypeExpense, "housing", time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC))
	seed(t, ledger, "user-2", "Other wallet", 99, domain.TypeExpense, "food", aug(5))

	got, err := summaries.MonthlySummary(context.Background(), "user-1", 8, 2026)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if got.Income.Total != 3000 {
		t.Errorf("income total: expected 3000, got %v", got.Income.Total)
	}
	if got.Expense.Total != -1600 {
		t.Errorf("expense total: expected -1600, got %v", got.Expense.Total)
	}
	if got.Balance != 1400 {
		t.Errorf("balance: expected 1400, got %v", got.Balance)
	}
}

func TestMonthlySummaryCategoryBreakdown(t *testing.T) {
	ledger, summaries := newSummaryFixture()
	aug := func(day int) time.Time { return time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC) }

	seed(t, ledger, "user-1", "Rent", 700, domain.TypeExpense, "housing", aug(1))
	seed(t, ledger, "user-1", "Market", 200, domain.TypeExpense, "food", aug(3))
	seed(t, ledger, "user-1", "Snacks", 100, domain.TypeExpense, "food", aug(7))

	got, err := summaries.MonthlySummary(context.Background(), "user-1", 8, 2026)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	cats := got.Expense.Categories
	if len(cats) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(cats))
	}
	// Ordered by absolute total descending.
	if cats[0].Category != "housing" || cats[1].Category != "food" {
		t.Errorf("unexpected order: %s, %s", cats[0].Category, cats[1].Category)
	}
	if cats[0].Total != -700 || cats[0].Count != 1 {
		t.Errorf("housing: expected total -700 count 1, got %+v", cats[0])
	}
	if cats[1].Total != -300 || cats[1].Count != 2 {
		t.Errorf("food: expected total -300 count 2, got %+v", cats[1])
	}
	if cats[0].Name == "" || cats[0].Icon == "" {
		t.Errorf("missing display metadata: %+v", cats[0])
	}

	if service.Percentage(cats[0].Total, got.Expense.Total) != 70 {
		t.Errorf("housing share: expected 70, got %d", service.Percentage(cats[0].Total, got.Expense.Total))
	}
	if service.Percentage(cats[1].Total, got.Expense.Total) != 30 {
		t.Errorf("food share: expected 30, got %d", service.Percentage(cats[1].Total, got.Expense.Total))
	}
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	_, summaries := newSummaryFixture()

	got, err := summaries.MonthlySummary(context.Background(), "user-1", 2, 2026)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Income.Total != 0 || got.Expense.Total != 0 || got.Balance != 0 {
		t.Errorf("expected all-zero summary, got %+v", got)
	}
	if len(got.Income.Categories) != 0 || len(got.Expense.Categories) != 0 {
		t.Errorf("expected empty category lists, got %+v", got)
	}
}

func TestMonthlySummaryMonthBoundaries(t *testing.T) {
	ledger, summaries := newSummaryFixture()

	// Last instant of July and first instant of September are excluded,
	// first instant of August is included.
	seed(t, ledger, "user-1", "July edge", 10, domain.TypeExpense, "food", time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC))
	seed(t, ledger, "user-1", "August start", 20, domain.TypeExpense, "food", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	seed(t, ledger, "user-1", "September start", 40, domain.TypeExpense, "food", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	got, err := summaries.MonthlySummary(context.Background(), "user-1", 8, 2026)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Expense.Total != -20 {
		t.Errorf("expected only the August entry (-20), got %v", got.Expense.Total)
	}
}

func TestMonthlySummaryInvalidMonth(t *testing.T) {
	_, summaries := newSummaryFixture()

	for _, month := range []int{0, 13, -1} {
		_, err := summaries.MonthlySummary(context.Background(), "user-1", month, 2026)
		var validation *domain.ErrValidation
		if !errors.As(err, &validation) {
			t.Errorf("month %d: expected ErrValidation, got %v", month, err)
		}
	}
}

func TestPercentageZeroGroup(t *testing.T) {
	if got := service.Percentage(0, 0); got != 0 {
		t.Errorf("expected 0 for empty group, got %d", got)
	}
	if got := service.Percentage(-50, -200); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	if got := service.Percentage(-1, -3); got != 33 {
		t.Errorf("expected 33, got %d", got)
	}
}
