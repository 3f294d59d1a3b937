package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/port"
)

type WarehouseService struct {
	warehouses port.WarehouseRepository
	fx         *effects
}

func NewWarehouseService(warehouses port.WarehouseRepository, opts ...Option) *WarehouseService {
	return &WarehouseService{warehouses: warehouses, fx: newEffects(opts)}
}

func (s *WarehouseService) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	return s.warehouses.List(ctx)
}

func (s *WarehouseService) GetWarehouse(ctx context.Context, warehouseID int) (domain.Warehouse, error) {
	return s.warehouses.GetByID(ctx, warehouseID)
}

func (s *WarehouseService) ListWarehousesByProduct(ctx context.Context, productID int) ([]domain.Warehouse, error) {
	return s.warehouses.ListByProductID(ctx, productID)
}

func (s *WarehouseService) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	created, err := s.warehouses.Add(ctx, warehouse)
	if err != nil {
		return domain.Warehouse{}, err
	}
	s.fx.logger.Info("warehouse created",
		zap.Int("warehouse_id", created.WarehouseID),
		zap.Int("product_id", created.ProductID))
	s.fx.publish(ctx, domain.EventWarehouseCreated, created.WarehouseID, created)
	return created, nil
}

func (s *WarehouseService) ReplaceWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	updated, err := s.warehouses.Update(ctx, warehouse)
	if err != nil {
		return domain.Warehouse{}, err
	}
	s.fx.logger.Info("warehouse replaced", zap.Int("warehouse_id", updated.WarehouseID))
	s.fx.publish(ctx, domain.EventWarehouseUpdated, updated.WarehouseID, updated)
	return updated, nil
}

func (s *WarehouseService) DeleteWarehouse(ctx context.Context, warehouseID int) (domain.Warehouse, error) {
	deleted, err := s.warehouses.Delete(ctx, warehouseID)
	if err != nil {
		return domain.Warehouse{}, err
	}
	s.fx.logger.Info("warehouse deleted", zap.Int("warehouse_id", warehouseID))
	s.fx.publish(ctx, domain.EventWarehouseDeleted, warehouseID, deleted)
	return deleted, nil
}
