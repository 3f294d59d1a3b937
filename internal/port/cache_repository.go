package port

import "context"

// StockMirror publishes QOH to an external cache for read-heavy consumers.
type StockMirror interface {
	// SetStock overwrites the mirrored QOH
	SetStock(ctx context.Context, warehouseID int, qoh int) error

	DeleteStock(ctx context.Context, warehouseID int) error
}
