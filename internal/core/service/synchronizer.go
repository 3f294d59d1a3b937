package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/metrics"
	"github.com/rl1809/product-inventory/internal/port"
)

var _ port.WarehouseSynchronizer = (*Synchronizer)(nil)

// Synchronizer keeps the warehouse snapshots embedded in products in line
// with the warehouse store. Each propagation is one atomic product rewrite.
type Synchronizer struct {
	products port.ProductSnapshotWriter
	logger   *zap.Logger
	metrics  *metrics.Registry
}

func NewSynchronizer(products port.ProductSnapshotWriter, logger *zap.Logger, m *metrics.Registry) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Synchronizer{products: products, logger: logger, metrics: m}
}

func (s *Synchronizer) PropagateUpdate(ctx context.Context, warehouse domain.Warehouse) {
	touched := 0
	err := s.products.RewriteAll(ctx, func(products []domain.Product) []domain.Product {
		var out []domain.Product
		out, touched = domain.ReplaceEmbeddedWarehouse(products, warehouse)
		return out
	})
	if err != nil {
		s.logger.Error("propagate warehouse update failed",
			zap.Int("warehouse_id", warehouse.WarehouseID),
			zap.Error(err))
		return
	}

	s.metrics.SnapshotsReplaced.Add(float64(touched))
	s.logger.Debug("propagated warehouse update",
		zap.Int("warehouse_id", warehouse.WarehouseID),
		zap.Int("products", touched))
}

func (s *Synchronizer) PropagateDelete(ctx context.Context, warehouseID int) {
	touched := 0
	err := s.products.RewriteAll(ctx, func(products []domain.Product) []domain.Product {
		var out []domain.Product
		out, touched = domain.RemoveEmbeddedWarehouse(products, warehouseID)
		return out
	})
	if err != nil {
		s.logger.Error("propagate warehouse delete failed",
			zap.Int("warehouse_id", warehouseID),
			zap.Error(err))
		return
	}

	s.metrics.SnapshotsRemoved.Add(float64(touched))
	s.logger.Debug("propagated warehouse delete",
		zap.Int("warehouse_id", warehouseID),
		zap.Int("products", touched))
}
