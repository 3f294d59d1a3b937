package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/port"
)

type ProductService struct {
	products   port.ProductRepository
	snapshots  port.ProductSnapshotWriter
	warehouses port.WarehouseRepository
	fx         *effects
	syncs      singleflight.Group
}

func NewProductService(products port.ProductRepository, snapshots port.ProductSnapshotWriter, warehouses port.WarehouseRepository, opts ...Option) *ProductService {
	return &ProductService{
		products:   products,
		snapshots:  snapshots,
		warehouses: warehouses,
		fx:         newEffects(opts),
	}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	return s.products.GetByID(ctx, productID)
}

func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := s.products.Add(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.fx.logger.Info("product created", zap.Int("product_id", created.ProductID))
	s.fx.publish(ctx, domain.EventProductCreated, created.ProductID, created)
	return created, nil
}

func (s *ProductService) ReplaceProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := s.products.Update(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.fx.logger.Info("product replaced", zap.Int("product_id", updated.ProductID))
	s.fx.publish(ctx, domain.EventProductUpdated, updated.ProductID, updated)
	return updated, nil
}

// DeleteProduct leaves the product's warehouses in place.
func (s *ProductService) DeleteProduct(ctx context.Context, productID int) (domain.Product, error) {
	deleted, err := s.products.Delete(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	s.fx.logger.Info("product deleted", zap.Int("product_id", productID))
	s.fx.publish(ctx, domain.EventProductDeleted, productID, deleted)
	return deleted, nil
}

// MaterializeWarehouses rebuilds the product's embedded warehouse list from
// the warehouse store. The warehouse read lock is held across the rewrite,
// so no update of those warehouses can land between the read and the write.
// Concurrent calls for one product share a single rebuild.
func (s *ProductService) MaterializeWarehouses(ctx context.Context, productID int) (domain.Product, error) {
	v, err, shared := s.syncs.Do(strconv.Itoa(productID), func() (any, error) {
		return s.materialize(ctx, productID)
	})
	if err != nil {
		return domain.Product{}, err
	}

	product := v.(domain.Product)
	if shared {
		product = product.Clone()
	}
	return product, nil
}

func (s *ProductService) materialize(ctx context.Context, productID int) (domain.Product, error) {
	var product domain.Product
	err := s.warehouses.WithProductWarehouses(ctx, productID, func(warehouses []domain.Warehouse) error {
		var err error
		product, err = s.snapshots.Rewrite(ctx, productID, func(p domain.Product) domain.Product {
			return p.WithWarehouses(warehouses)
		})
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.fx.logger.Info("product warehouses materialized",
		zap.Int("product_id", productID),
		zap.Int("warehouses", len(product.Warehouses)))
	s.fx.publish(ctx, domain.EventProductUpdated, productID, product)
	return product, nil
}
