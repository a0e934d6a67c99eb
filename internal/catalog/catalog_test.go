package catalog_test

import (
	"errors"
	"testing"

	"github.com/dmatos/fintrack-api-go/internal/catalog"
	"github.com/dmatos/fintrack-api-go/internal/domain"
)

func TestAllHasTwelveEntries(t *testing.T) {
	all := catalog.All()
	if len(all) != 12 {
		t.Fatalf("expected 12 catalog entries, got %d", len(all))
	}
	if all[0].ID != "food" || all[len(all)-1].ID != "other" {
		t.Errorf("unexpected catalog order: first=%s last=%s", all[0].ID, all[len(all)-1].ID)
	}
}

func TestEligibleForIncome(t *testing.T) {
	want := map[string]bool{"salary": true, "freelance": true, "investment": true, "other": true}

	got := catalog.EligibleFor(domain.TypeIncome)
	if len(got) != len(want) {
		t.Fatalf("expected %d income categories, got %d", len(want), len(got))
	}
	for _, c := range got {
		if !want[c.ID] {
			t.Errorf("category %q should not be income-eligible", c.ID)
		}
	}
}

func TestEligibleForExpense(t *testing.T) {
	got := catalog.EligibleFor(domain.TypeExpense)

	// 8 pure expense categories plus "other".
	if len(got) != 9 {
		t.Fatalf("expected 9 expense categories, got %d", len(got))
	}
	for _, c := range got {
		if c.ID == "salary" || c.ID == "freelance" || c.ID == "investment" {
			t.Errorf("category %q should not be expense-eligible", c.ID)
		}
	}
}

func TestOtherEligibleForBoth(t *testing.T) {
	other, err := catalog.Resolve("other")
	if err != nil {
		t.Fatalf("resolve other: %v", err)
	}
	if !catalog.Eligible(other, domain.TypeIncome) {
		t.Error("other should be income-eligible")
	}
	if !catalog.Eligible(other, domain.TypeExpense) {
		t.Error("other should be expense-eligible")
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := catalog.Resolve("crypto")
	var unknown *domain.ErrUnknownCategory
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestResolveReturnsMetadata(t *testing.T) {
	food, err := catalog.Resolve("food")
	if err != nil {
		t.Fatalf("resolve food: %v", err)
	}
	if food.Name != "Food" || food.Icon == "" || food.Color == "" {
		t.Errorf("food entry missing display metadata: %+v", food)
	}
}
