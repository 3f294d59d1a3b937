package handler

import (
	"testing"

	"github.com/rl1809/product-inventory/internal/adapter/storage"
	"github.com/rl1809/product-inventory/internal/core/service"
)

type testServices struct {
	products     *service.ProductService
	warehouses   *service.WarehouseService
	transactions *service.TransactionService
	sites        *storage.SiteStore
}

// newTestServices wires the in-memory stores with a single warehouse 10
// stocking product 1.
func newTestServices(t *testing.T, txOpts ...service.TransactionOption) testServices {
	t.Helper()

	products := storage.NewProductStore()
	warehouses := storage.NewWarehouseStore(service.NewSynchronizer(products, nil, nil))
	return testServices{
		products:     service.NewProductService(products, products, warehouses),
		warehouses:   service.NewWarehouseService(warehouses),
		transactions: service.NewTransactionService(products, warehouses, txOpts),
		sites:        storage.NewSiteStore(storage.SeedSite()),
	}
}
