package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Transactions table (port.TransactionStore)
// ============================================================

// supabaseTransaction maps transactions table columns.
type supabaseTransaction struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"owner_id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	CreatedAt string  `json:"created_at"`
}

func (r supabaseTransaction) toDomain() domain.Transaction {
	date, _ := time.Parse(time.RFC3339, r.Date)
	if date.IsZero() {
		date, _ = time.Parse("2006-01-02", r.Date)
	}
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return domain.Transaction{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		Amount:    r.Amount,
		Type:      r.Type,
		Category:  r.Category,
		Date:      date,
		CreatedAt: created,
	}
}

// CreateTransaction persists a new ledger row.
func (c *Client) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", tx.ID))

	_, err := c.doPost(ctx, "transactions", map[string]any{
		"id":         tx.ID,
		"owner_id":   tx.OwnerID,
		"title":      tx.Title,
		"amount":     tx.Amount,
		"type":       tx.Type,
		"category":   tx.Category,
		"date":       tx.Date.Format(time.RFC3339),
		"created_at": tx.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return nil
}

// GetTransaction returns the owner's transaction with the given id. An id
// owned by someone else matches no row and yields ErrNotFound.
func (c *Client) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id))

	var tx *domain.Transaction

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("transactions?id=eq.%s&owner_id=eq.%s&limit=1", url.QueryEscape(id), url.QueryEscape(ownerID))
			body, err := c.doGet(ctx, path)
			if err != nil {
				return err
			}
			if body == nil || string(body) == "[]" {
				tx = nil
				return nil
			}

			var rows []supabaseTransaction
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode transactions: %w", err)
			}
			if len(rows) == 0 {
				tx = nil
				return nil
			}
			t := rows[0].toDomain()
			tx = &t
			return nil
		})
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	if tx == nil {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}

	return tx, nil
}

// UpdateTransaction overwrites the owner's row with the merged record.
func (c *Client) UpdateTransaction(ctx context.Context, tx *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", tx.ID))

	path := fmt.Sprintf("transactions?id=eq.%s&owner_id=eq.%s", url.QueryEscape(tx.ID), url.QueryEscape(tx.OwnerID))
	n, err := c.doPatch(ctx, path, map[string]any{
		"title":    tx.Title,
		"amount":   tx.Amount,
		"type":     tx.Type,
		"category": tx.Category,
		"date":     tx.Date.Format(time.RFC3339),
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: tx.ID}
	}
	return nil
}

// DeleteTransaction removes the owner's row permanently.
func (c *Client) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id))

	path := fmt.Sprintf("transactions?id=eq.%s&owner_id=eq.%s", url.QueryEscape(id), url.QueryEscape(ownerID))
	n, err := c.doDelete(ctx, path)
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	return nil
}

// ListTransactions fetches all of the owner's transactions, newest first.
func (c *Client) ListTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	var transactions []domain.Transaction

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("transactions?owner_id=eq.%s&order=date.desc", url.QueryEscape(ownerID))
			body, err := c.doGet(ctx, path)
			if err != nil {
				return err
			}
			if body == nil || string(body) == "[]" {
				transactions = []domain.Transaction{}
				return nil
			}

			var rows []supabaseTransaction
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode transactions: %w", err)
			}

			transactions = make([]domain.Transaction, 0, len(rows))
			for _, r := range rows {
				transactions = append(transactions, r.toDomain())
			}
			return nil
		})
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	return transactions, nil
}
