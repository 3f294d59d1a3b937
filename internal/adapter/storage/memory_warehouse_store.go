package storage

import (
	"context"
	"sync"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/port"
)

var _ port.WarehouseRepository = (*WarehouseStore)(nil)

// WarehouseStore is the canonical, in-memory warehouse collection. Mutations
// are serialized and fanned out to product snapshots before the lock is released.
type WarehouseStore struct {
	mu         sync.RWMutex
	warehouses []domain.Warehouse
	sync       port.WarehouseSynchronizer
	hooks      []port.WarehouseCommitHook
}

func NewWarehouseStore(synchronizer port.WarehouseSynchronizer, seed ...domain.Warehouse) *WarehouseStore {
	s := &WarehouseStore{
		warehouses: make([]domain.Warehouse, 0, len(seed)),
		sync:       synchronizer,
	}
	for _, w := range seed {
		s.warehouses = append(s.warehouses, w.Clone())
	}
	return s
}

// OnCommit registers a hook that runs after every add, replace and delete,
// before the write lock is released.
func (s *WarehouseStore) OnCommit(hook port.WarehouseCommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, hook)
}

func (s *WarehouseStore) List(_ context.Context) ([]domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Warehouse, len(s.warehouses))
	for i, w := range s.warehouses {
		out[i] = w.Clone()
	}
	return out, nil
}

func (s *WarehouseStore) GetByID(_ context.Context, warehouseID int) (domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(warehouseID)
	if i < 0 {
		return domain.Warehouse{}, domain.NewNotFoundError("warehouse", warehouseID)
	}
	return s.warehouses[i].Clone(), nil
}

func (s *WarehouseStore) ListByProductID(_ context.Context, productID int) ([]domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.byProduct(productID), nil
}

func (s *WarehouseStore) Add(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	if err := domain.ValidateWarehouse(warehouse); err != nil {
		return domain.Warehouse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(warehouse.WarehouseID) >= 0 {
		return domain.Warehouse{}, domain.NewConflictError("warehouse", warehouse.WarehouseID)
	}
	s.warehouses = append(s.warehouses, warehouse.Clone())
	for _, hook := range s.hooks {
		hook.WarehouseStored(ctx, warehouse.Clone())
	}
	return warehouse.Clone(), nil
}

func (s *WarehouseStore) Update(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	if err := domain.ValidateWarehouse(warehouse); err != nil {
		return domain.Warehouse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(warehouse.WarehouseID)
	if i < 0 {
		return domain.Warehouse{}, domain.NewNotFoundError("warehouse", warehouse.WarehouseID)
	}
	s.replace(ctx, i, warehouse)
	return warehouse.Clone(), nil
}

func (s *WarehouseStore) Delete(ctx context.Context, warehouseID int) (domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(warehouseID)
	if i < 0 {
		return domain.Warehouse{}, domain.NewNotFoundError("warehouse", warehouseID)
	}

	removed := s.warehouses[i]
	s.warehouses = append(s.warehouses[:i:i], s.warehouses[i+1:]...)
	if s.sync != nil {
		s.sync.PropagateDelete(ctx, warehouseID)
	}
	for _, hook := range s.hooks {
		hook.WarehouseRemoved(ctx, warehouseID)
	}
	return removed, nil
}

func (s *WarehouseStore) Modify(ctx context.Context, warehouseID int, fn func(*domain.Warehouse) error) (domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(warehouseID)
	if i < 0 {
		return domain.Warehouse{}, domain.NewNotFoundError("warehouse", warehouseID)
	}

	next := s.warehouses[i].Clone()
	if err := fn(&next); err != nil {
		return domain.Warehouse{}, err
	}
	if next.WarehouseID != warehouseID {
		return domain.Warehouse{}, domain.NewValidationError(domain.FieldError{
			Value: next.WarehouseID,
			Msg:   "warehouse ID cannot change",
			Param: "warehouseId",
		})
	}
	if err := domain.ValidateWarehouse(next); err != nil {
		return domain.Warehouse{}, err
	}

	s.replace(ctx, i, next)
	return next.Clone(), nil
}

func (s *WarehouseStore) WithProductWarehouses(_ context.Context, productID int, fn func([]domain.Warehouse) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.byProduct(productID))
}

// replace must be called with the write lock held.
func (s *WarehouseStore) replace(ctx context.Context, i int, warehouse domain.Warehouse) {
	s.warehouses[i] = warehouse.Clone()
	if s.sync != nil {
		s.sync.PropagateUpdate(ctx, warehouse.Clone())
	}
	for _, hook := range s.hooks {
		hook.WarehouseStored(ctx, warehouse.Clone())
	}
}

func (s *WarehouseStore) byProduct(productID int) []domain.Warehouse {
	out := make([]domain.Warehouse, 0)
	for _, w := range s.warehouses {
		if w.ProductID == productID {
			out = append(out, w.Clone())
		}
	}
	return out
}

func (s *WarehouseStore) indexOf(warehouseID int) int {
	for i, w := range s.warehouses {
		if w.WarehouseID == warehouseID {
			return i
		}
	}
	return -1
}
