package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/port"
)

// TransactionService applies inventory transactions to warehouses.
type TransactionService struct {
	products    port.ProductRepository
	warehouses  port.WarehouseRepository
	journal     *Journal
	allowRemove bool
	lastID      atomic.Int64
	fx          *effects
}

type TransactionOption func(*TransactionService)

// WithRemoveStock lets RemoveStock transactions through.
func WithRemoveStock(allow bool) TransactionOption {
	return func(s *TransactionService) { s.allowRemove = allow }
}

func WithJournal(journal *Journal) TransactionOption {
	return func(s *TransactionService) { s.journal = journal }
}

func NewTransactionService(products port.ProductRepository, warehouses port.WarehouseRepository, txOpts []TransactionOption, opts ...Option) *TransactionService {
	s := &TransactionService{
		products:   products,
		warehouses: warehouses,
		fx:         newEffects(opts),
	}
	for _, opt := range txOpts {
		opt(s)
	}
	return s
}

// SeedSequence moves the ID sequence past every transaction already held by
// the given warehouses.
func (s *TransactionService) SeedSequence(warehouses []domain.Warehouse) {
	for _, w := range warehouses {
		for _, tx := range w.Transactions {
			s.observeID(tx.TransactionID)
		}
	}
}

// ApplyTransaction validates tx and applies it to its warehouse. It is not
// idempotent: applying the same transaction twice moves QOH twice.
func (s *TransactionService) ApplyTransaction(ctx context.Context, tx domain.InventoryTransaction) (domain.InventoryTransaction, error) {
	if err := domain.ValidateTransaction(tx); err != nil {
		s.rejected("validation")
		return domain.InventoryTransaction{}, err
	}
	if tx.TransactionType == domain.TransactionTypeRemoveStock && !s.allowRemove {
		s.rejected("policy")
		return domain.InventoryTransaction{}, domain.NewValidationError(domain.FieldError{
			Value: tx.TransactionType,
			Msg:   "transaction type must be AddStock",
			Param: "transactionType",
		})
	}

	if _, err := s.products.GetByID(ctx, tx.ProductID); err != nil {
		s.rejected(reasonFor(err))
		return domain.InventoryTransaction{}, err
	}

	if tx.TransactionID == 0 {
		tx.TransactionID = int(s.lastID.Add(1))
	}

	updated, err := s.warehouses.Modify(ctx, tx.WarehouseID, func(w *domain.Warehouse) error {
		return w.Apply(tx)
	})
	if err != nil {
		s.rejected(reasonFor(err))
		return domain.InventoryTransaction{}, err
	}
	s.observeID(tx.TransactionID)

	s.fx.metrics.TransactionsApplied.WithLabelValues(string(tx.TransactionType)).Inc()
	s.fx.logger.Info("transaction applied",
		zap.Int("transaction_id", tx.TransactionID),
		zap.Int("warehouse_id", tx.WarehouseID),
		zap.Int("product_id", tx.ProductID),
		zap.String("type", string(tx.TransactionType)),
		zap.Int("amount", tx.Amount),
		zap.Int("qoh", updated.QOH))

	s.fx.publish(ctx, domain.EventTransactionApplied, tx.WarehouseID, tx)
	if s.journal != nil {
		s.journal.Enqueue(domain.JournalEntry{
			ID:          uuid.NewString(),
			Transaction: tx,
			QOHAfter:    updated.QOH,
			RecordedAt:  s.fx.now().UTC(),
		})
	}
	return tx, nil
}

func (s *TransactionService) observeID(id int) {
	for {
		last := s.lastID.Load()
		if int64(id) <= last || s.lastID.CompareAndSwap(last, int64(id)) {
			return
		}
	}
}

func (s *TransactionService) rejected(reason string) {
	s.fx.metrics.TransactionsFailed.WithLabelValues(reason).Inc()
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
