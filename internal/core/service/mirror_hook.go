package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/metrics"
	"github.com/rl1809/product-inventory/internal/port"
)

var _ port.WarehouseCommitHook = (*StockMirrorHook)(nil)

// StockMirrorHook copies the committed QOH of every warehouse into a
// StockMirror. It writes absolute values only, so the mirror converges on
// the store as long as calls arrive in commit order.
type StockMirrorHook struct {
	mirror  port.StockMirror
	logger  *zap.Logger
	metrics *metrics.Registry
}

func NewStockMirrorHook(mirror port.StockMirror, logger *zap.Logger, m *metrics.Registry) *StockMirrorHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &StockMirrorHook{mirror: mirror, logger: logger, metrics: m}
}

func (h *StockMirrorHook) WarehouseStored(ctx context.Context, warehouse domain.Warehouse) {
	if err := h.mirror.SetStock(ctx, warehouse.WarehouseID, warehouse.QOH); err != nil {
		h.failed("set", warehouse.WarehouseID, err)
	}
}

func (h *StockMirrorHook) WarehouseRemoved(ctx context.Context, warehouseID int) {
	if err := h.mirror.DeleteStock(ctx, warehouseID); err != nil {
		h.failed("delete", warehouseID, err)
	}
}

func (h *StockMirrorHook) failed(op string, warehouseID int, err error) {
	h.metrics.MirrorFailed.Inc()
	h.logger.Warn("stock mirror write failed",
		zap.String("op", op),
		zap.Int("warehouse_id", warehouseID),
		zap.Error(err))
}
