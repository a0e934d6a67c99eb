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

func newLedgerService(store *memory.Store) *service.LedgerService {
	return service.NewLedgerService(store, observability.NewMetrics(), zap.NewNop())
}

func TestCreateNormalizesExpenseSign(t *testing.T) {
	svc := newLedgerService(memory.NewStore())

	tx, err := svc.Create(context.Background(), "user-1", &domain.CreateTransactionRequest{
		Title:    "Groceries",
		Amount:   50,
		Type:     domain.TypeExpense,
		Category: "food",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.Amount != -50 {
		t.Errorf("expected amount -50, got %v", tx.Amount)
	}
}

func TestCreateNormalizesIncomeSign(t *testing.T) {
	svc := newLedgerService(memory.NewStore())

	// A negative amount on an income entry is still stored positive.
	tx, err := svc.Create(context.Background(), "user-1", &domain.CreateTransactionRequest{
		Title:    "Paycheck",
		Amount:   -3000,
		Type:     domain.TypeIncome,
		Category: "salary",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.Amount != 3000 {
		t.Errorf("expected amount 3000, got %v", tx.Amount)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newLedgerService(memory.NewStore())
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateTransactionRequest
	}{
		{"empty title", domain.CreateTransactionRequest{Amount: 10, Type: "expense", Category: "food"}},
		{"zero amount", domain.CreateTransactionRequest{Title: "x", Amount: 0, Type: "expense", Category: "food"}},
		{"bad type", domain.CreateTransactionRequest{Title: "x", Amount: 10, Type: "transfer", Category: "food"}},
		{"salary as expense", domain.CreateTransactionRequest{Title: "x", Amount: 10, Type: "expense", Category: "salary"}},
		{"food as income", domain.CreateTransactionRequest{Title: "x", Amount: 10, Type: "income", Category: "food"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "user-1", &tc.req); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc := newLedgerService(memory.NewStore())

	_, err := svc.Create(context.Background(), "user-1", &domain.CreateTransactionRequest{
		Title:    "x",
		Amount:   10,
		Type:     domain.TypeExpense,
		Category: "crypto",
	})
	var unknown *domain.ErrUnknownCategory
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestUpdateReappliesSignOnTypeChange(t *testing.T) {
	svc := newLedgerService(memory.NewStore())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "user-1", &domain.CreateTransactionRequest{
		Title:    "Refund",
		Amount:   80,
		Type:     domain.TypeExpense,
		Category: "other",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newType := domain.TypeIncome
	updated, err := svc.Update(ctx, "user-1", tx.ID, &domain.UpdateTransactionRequest{Type: &newType})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 80 {
		t.Errorf("expected amount 80 after flip to income, got %v", updated.Amount)
	}
}

func TestUpdateRejectsIneligibleCombination(t *testing.T) {
	svc := newLedgerService(memory.NewStore())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "user-1", &domain.CreateTransactionRequest{
		Title:    "Paycheck",
		Amount:   3000,
		Type:     domain.TypeIncome,
		Category: "salary",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Flipping type alone leaves salary on an expense row, which is invalid.
	newType := domain.TypeExpense
	_, err = svc.Update(ctx, "user-1", tx.ID, &domain.UpdateTransactionRequest{Type: &newType})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCrossOwnerAccessIsNotFound(t *testing.T) {
	svc := newLedgerService(memory.NewStore())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "owner", &domain.CreateTransactionRequest{
		Title:    "Private",
		Amount:   10,
		Type:     domain.TypeExpense,
		Category: "shopping",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "hijacked"
	var notFound *domain.ErrNotFound

	if _, err := svc.Get(ctx, "intruder", tx.ID); !errors.As(err, &notFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "intruder", tx.ID, &domain.UpdateTransactionRequest{Title: &title}); !errors.As(err, &notFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "intruder", tx.ID); !errors.As(err, &notFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}

	// The row is untouched for its real owner.
	got, err := svc.Get(ctx, "owner", tx.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Title != "Private" {
		t.Errorf("row was modified: %+v", got)
	}
}

func TestDeleteThenDeleteAgain(t *testing.T) {
	svc := newLedgerService(memory.NewStore())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "user-1", &domain.CreateTransactionRequest{
		Title:    "One-off",
		Amount:   5,
		Type:     domain.TypeExpense,
		Category: "entertainment",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", tx.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	var notFound *domain.ErrNotFound
	if err := svc.Delete(ctx, "user-1", tx.ID); !errors.As(err, &notFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := newLedgerService(memory.NewStore())
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := svc.Create(ctx, "user-1", &domain.CreateTransactionRequest{
			Title:    "entry",
			Amount:   float64(i + 1),
			Type:     domain.TypeExpense,
			Category: "food",
			Date:     d,
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Errorf("list not in date-descending order: %v before %v", list[i-1].Date, list[i].Date)
		}
	}
}
