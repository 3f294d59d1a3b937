package storage

import (
	"time"

	"github.com/rl1809/product-inventory/internal/core/domain"
)

func SeedSite() domain.Site {
	return domain.Site{
		SiteID:       1,
		SiteName:     "Product Management",
		ContactEmail: "peter.vogel@phvis.com",
		ContactName:  "Peter Vogel",
	}
}

func SeedProducts(now time.Time) []domain.Product {
	return []domain.Product{
		{ProductID: 109, ProductName: "Widget", InStock: true, LastDelivery: now.AddDate(0, 0, -2)},
		{ProductID: 423, ProductName: "Sprocket", InStock: true, LastDelivery: now.AddDate(-12, 0, 0)},
		{ProductID: 387, ProductName: "Doodad", InStock: true, LastDelivery: now},
	}
}

func SeedWarehouses() []domain.Warehouse {
	return []domain.Warehouse{
		{
			WarehouseID: 1, ProductID: 109, WarehouseName: "Eastern US", International: false,
			Address: domain.Address{Street: "63 Overlea", City: "Pittsburgh", Country: "USA"}, QOH: 15,
		},
		{
			WarehouseID: 2, ProductID: 387, WarehouseName: "Central US", International: false,
			Address: domain.Address{Street: "500 Ridout St.", City: "Cincinnatti", Country: "USA"}, QOH: 5,
		},
		{
			WarehouseID: 3, ProductID: 109, WarehouseName: "Central Canada", International: true,
			Address: domain.Address{Street: "3341 Rae St.", City: "Regina", Country: "Canada"}, QOH: 5,
		},
		{
			WarehouseID: 4, ProductID: 387, WarehouseName: "Great Britain", International: true,
			Address: domain.Address{Street: "424 Overlea", City: "Manchester", Country: "UK"}, QOH: 15,
		},
		{
			WarehouseID: 5, ProductID: 387, WarehouseName: "Scandinavia", International: true,
			Address: domain.Address{Street: "408 Durand", City: "Stockholm", Country: "Sweden"}, QOH: 213,
		},
		{
			WarehouseID: 6, ProductID: 423, WarehouseName: "South America", International: true,
			Address: domain.Address{Street: "53 St. Patrick", City: "Rio de Janeiro", Country: "Brazil"}, QOH: 112,
		},
		{
			WarehouseID: 7, ProductID: 387, WarehouseName: "East Asia", International: true,
			Address: domain.Address{Street: "2322 Colborne", City: "Hong Kong", Country: "China"}, QOH: 5,
		},
	}
}
