package port

import (
	"context"

	"github.com/rl1809/product-inventory/internal/core/domain"
)

type TransactionJournal interface {
	// RecordTransaction appends an applied transaction to the audit journal
	RecordTransaction(ctx context.Context, entry domain.JournalEntry) error
}
