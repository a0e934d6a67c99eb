// Package catalog holds the static category taxonomy: one process-wide table
// of spending/income categories with display metadata and type eligibility.
// The table is initialized once and never mutated, so concurrent reads need
// no synchronization.
package catalog

import (
	"github.com/dmatos/fintrack-api-go/internal/domain"
)

// entries is the full ordered taxonomy. Income-eligible categories are
// salary, freelance, investment and other; every category except salary,
// freelance and investment is expense-eligible ("other" qualifies for both).
var entries = []domain.Category{
	{ID: "food", Name: "Food", Icon: "🍔", Color: "#f97316"},
	{ID: "transportation", Name: "Transportation", Icon: "🚗", Color: "#3b82f6"},
	{ID: "health", Name: "Health", Icon: "🏥", Color: "#ef4444"},
	{ID: "education", Name: "Education", Icon: "📚", Color: "#a855f7"},
	{ID: "entertainment", Name: "Entertainment", Icon: "🎬", Color: "#ec4899"},
	{ID: "shopping", Name: "Shopping", Icon: "🛍️", Color: "#eab308"},
	{ID: "utilities", Name: "Utilities", Icon: "💡", Color: "#06b6d4"},
	{ID: "housing", Name: "Housing", Icon: "🏠", Color: "#22c55e"},
	{ID: "salary", Name: "Salary", Icon: "💵", Color: "#10b981", Income: true},
	{ID: "freelance", Name: "Freelance", Icon: "💻", Color: "#6366f1", Income: true},
	{ID: "investment", Name: "Investment", Icon: "📈", Color: "#14b8a6", Income: true},
	{ID: "other", Name: "Other", Icon: "📦", Color: "#6b7280", Income: true},
}

var byID = func() map[string]domain.Category {
	m := make(map[string]domain.Category, len(entries))
	for _, e := range entries {
		m[e.ID] = e
	}
	return m
}()

// All returns the full catalog in its canonical order.
func All() []domain.Category {
	out := make([]domain.Category, len(entries))
	copy(out, entries)
	return out
}

// Resolve returns the catalog entry for id, or ErrUnknownCategory.
func Resolve(id string) (domain.Category, error) {
	e, ok := byID[id]
	if !ok {
		return domain.Category{}, &domain.ErrUnknownCategory{ID: id}
	}
	return e, nil
}

// EligibleFor returns the ordered subsequence of categories that may be
// attached to transactions of the given type.
func EligibleFor(txType string) []domain.Category {
	out := make([]domain.Category, 0, len(entries))
	for _, e := range entries {
		if Eligible(e, txType) {
			out = append(out, e)
		}
	}
	return out
}

// Eligible reports whether a single entry may be attached to txType.
// "other" is the only category eligible for both types.
func Eligible(e domain.Category, txType string) bool {
	if txType == domain.TypeIncome {
		return e.Income
	}
	return !e.Income || e.ID == "other"
}
