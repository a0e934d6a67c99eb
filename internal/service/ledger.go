package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/catalog"
	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/infra/observability"
	"github.com/dmatos/fintrack-api-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ledgerTracer = otel.Tracer("service/ledger")

// LedgerService manages a user's transactions. Every operation is scoped
// to the owner passed in, so one user can never see or touch another's rows.
type LedgerService struct {
	store   port.TransactionStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store port.TransactionStore, metrics *observability.Metrics, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// Create — POST /api/transactions
// ============================================================

func (s *LedgerService) Create(ctx context.Context, ownerID string, req *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "title is required"}
	}
	if err := validateTypeAndCategory(req.Type, req.Category); err != nil {
		return nil, err
	}
	if req.Amount == 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be non-zero"}
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx := &domain.Transaction{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Amount:    normalizeAmount(req.Amount, req.Type),
		Type:      req.Type,
		Category:  req.Category,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		s.metrics.IncrStoreError("transactions")
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.metrics.IncrTransactionCreated(tx.Type)
	s.logger.Info("ledger: transaction created",
		zap.String("transaction_id", tx.ID),
		zap.String("owner_id", ownerID),
		zap.String("type", tx.Type),
		zap.String("category", tx.Category),
	)

	return tx, nil
}

// ============================================================
// Update — PUT /api/transactions/{id}
// ============================================================

func (s *LedgerService) Update(ctx context.Context, ownerID, id string, req *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id))

	tx, err := s.store.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, &domain.ErrValidation{Field: "title", Message: "title cannot be empty"}
		}
		tx.Title = title
	}
	if req.Type != nil {
		tx.Type = *req.Type
	}
	if req.Category != nil {
		tx.Category = *req.Category
	}
	if req.Amount != nil {
		if *req.Amount == 0 {
			return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be non-zero"}
		}
		tx.Amount = *req.Amount
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}

	// Type, category and amount interact, so the merged record is
	// re-validated and the sign re-derived as a whole.
	if err := validateTypeAndCategory(tx.Type, tx.Category); err != nil {
		return nil, err
	}
	tx.Amount = normalizeAmount(tx.Amount, tx.Type)

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("ledger: transaction updated",
		zap.String("transaction_id", tx.ID),
		zap.String("owner_id", ownerID),
	)

	return tx, nil
}

// ============================================================
// Delete — DELETE /api/transactions/{id}
// ============================================================

func (s *LedgerService) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id))

	if err := s.store.DeleteTransaction(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.Info("ledger: transaction deleted",
		zap.String("transaction_id", id),
		zap.String("owner_id", ownerID),
	)
	return nil
}

// ============================================================
// List — GET /api/transactions
// ============================================================

func (s *LedgerService) List(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.List")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	list, err := s.store.ListTransactions(ctx, ownerID)
	if err != nil {
		s.metrics.IncrStoreError("transactions")
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// Get returns a single owned transaction.
func (s *LedgerService) Get(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id))

	return s.store.GetTransaction(ctx, ownerID, id)
}

func validateTypeAndCategory(txType, category string) error {
	if txType != domain.TypeIncome && txType != domain.TypeExpense {
		return &domain.ErrValidation{Field: "type", Message: "type must be income or expense"}
	}
	entry, err := catalog.Resolve(category)
	if err != nil {
		return err
	}
	if !catalog.Eligible(entry, txType) {
		return &domain.ErrValidation{
			Field:   "category",
			Message: fmt.Sprintf("category %q cannot be used for %s transactions", category, txType),
		}
	}
	return nil
}

// normalizeAmount derives the stored sign from the type: expenses are
// negative, income positive, regardless of the sign the caller sent.
func normalizeAmount(amount float64, txType string) float64 {
	abs := math.Abs(amount)
	if txType == domain.TypeExpense {
		return -abs
	}
	return abs
}
