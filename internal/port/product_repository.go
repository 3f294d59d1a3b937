package port

import (
	"context"

	"github.com/rl1809/product-inventory/internal/core/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, productID int) (domain.Product, error)
	Add(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, productID int) (domain.Product, error)
}

// ProductSnapshotWriter is the narrow view of the product store the
// synchronizer works through.
type ProductSnapshotWriter interface {
	// RewriteAll swaps the product collection for fn's result atomically
	RewriteAll(ctx context.Context, fn func([]domain.Product) []domain.Product) error

	// Rewrite replaces a single product through fn atomically
	Rewrite(ctx context.Context, productID int, fn func(domain.Product) domain.Product) (domain.Product, error)
}

type SiteRepository interface {
	GetByID(ctx context.Context, siteID int) (domain.Site, error)
}
