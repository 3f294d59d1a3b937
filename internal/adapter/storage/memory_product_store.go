package storage

import (
	"context"
	"sync"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/port"
)

var (
	_ port.ProductRepository     = (*ProductStore)(nil)
	_ port.ProductSnapshotWriter = (*ProductStore)(nil)
)

// ProductStore holds products in insertion order. Add and Update never touch
// the embedded warehouse list; only RewriteAll and Rewrite write it.
type ProductStore struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewProductStore(seed ...domain.Product) *ProductStore {
	s := &ProductStore{products: make([]domain.Product, 0, len(seed))}
	for _, p := range seed {
		s.products = append(s.products, p.Clone())
	}
	return s
}

func (s *ProductStore) List(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *ProductStore) GetByID(_ context.Context, productID int) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(productID)
	if i < 0 {
		return domain.Product{}, domain.NewNotFoundError("product", productID)
	}
	return s.products[i].Clone(), nil
}

func (s *ProductStore) Add(_ context.Context, product domain.Product) (domain.Product, error) {
	product = withoutSnapshots(product)
	if err := domain.ValidateProduct(product); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(product.ProductID) >= 0 {
		return domain.Product{}, domain.NewConflictError("product", product.ProductID)
	}

	s.products = append(s.products, product)
	return product.Clone(), nil
}

// Update replaces the product's own fields and keeps its current snapshots.
func (s *ProductStore) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	product = withoutSnapshots(product)
	if err := domain.ValidateProduct(product); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(product.ProductID)
	if i < 0 {
		return domain.Product{}, domain.NewNotFoundError("product", product.ProductID)
	}

	current := s.products[i].Clone()
	product.Warehouses = current.Warehouses
	product.TotalQuantity = current.TotalQuantity

	s.products[i] = product
	return product.Clone(), nil
}

func (s *ProductStore) Delete(_ context.Context, productID int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return domain.Product{}, domain.NewNotFoundError("product", productID)
	}

	removed := s.products[i]
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	return removed, nil
}

// RewriteAll hands fn the live collection; fn must return a new slice rather
// than mutate the one it receives.
func (s *ProductStore) RewriteAll(_ context.Context, fn func([]domain.Product) []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = fn(s.products)
	return nil
}

func (s *ProductStore) Rewrite(_ context.Context, productID int, fn func(domain.Product) domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return domain.Product{}, domain.NewNotFoundError("product", productID)
	}

	next := fn(s.products[i].Clone())
	s.products[i] = next
	return next.Clone(), nil
}

func (s *ProductStore) indexOf(productID int) int {
	for i, p := range s.products {
		if p.ProductID == productID {
			return i
		}
	}
	return -1
}

func withoutSnapshots(p domain.Product) domain.Product {
	p.Warehouses = nil
	p.TotalQuantity = nil
	return p
}
