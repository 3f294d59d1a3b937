package port

import (
	"context"

	"github.com/rl1809/product-inventory/internal/core/domain"
)

type WarehouseRepository interface {
	List(ctx context.Context) ([]domain.Warehouse, error)

	// GetByID returns a *domain.NotFoundError when the warehouse is absent
	GetByID(ctx context.Context, warehouseID int) (domain.Warehouse, error)

	// ListByProductID returns an empty slice when no warehouse stocks the product
	ListByProductID(ctx context.Context, productID int) ([]domain.Warehouse, error)

	// Add rejects a duplicate warehouse ID with domain.ErrConflict
	Add(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)

	// Update replaces the whole record and propagates it to product snapshots
	Update(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)

	// Delete removes the record and its product snapshots
	Delete(ctx context.Context, warehouseID int) (domain.Warehouse, error)

	// Modify runs fn on a copy of the warehouse under the write lock, then
	// stores and propagates the result like Update
	Modify(ctx context.Context, warehouseID int, fn func(*domain.Warehouse) error) (domain.Warehouse, error)

	// WithProductWarehouses holds the read lock while fn runs, so no update
	// can interleave between reading the list and acting on it
	WithProductWarehouses(ctx context.Context, productID int, fn func([]domain.Warehouse) error) error
}

// WarehouseSynchronizer keeps embedded product snapshots in line with the
// canonical warehouse records. Neither call fails: a missing snapshot is a no-op.
type WarehouseSynchronizer interface {
	PropagateUpdate(ctx context.Context, warehouse domain.Warehouse)
	PropagateDelete(ctx context.Context, warehouseID int)
}

// WarehouseCommitHook observes every committed warehouse change. Calls are
// made under the warehouse write lock, in commit order, so a hook that
// copies state elsewhere never applies an older record over a newer one.
type WarehouseCommitHook interface {
	WarehouseStored(ctx context.Context, warehouse domain.Warehouse)
	WarehouseRemoved(ctx context.Context, warehouseID int)
}
