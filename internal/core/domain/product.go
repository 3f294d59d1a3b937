package domain

import "time"

type Product struct {
	ProductID     int         `json:"productId" validate:"min=1"`
	ProductName   string      `json:"productName" validate:"required"`
	InStock       bool        `json:"inStock"`
	LastDelivery  time.Time   `json:"lastDelivery" validate:"required"`
	TotalQuantity *int        `json:"totalQuantity,omitempty"`
	Warehouses    []Warehouse `json:"warehouses,omitempty" validate:"omitempty,dive"`
}

// Clone returns a deep copy of p, including every embedded warehouse snapshot.
func (p Product) Clone() Product {
	if p.TotalQuantity != nil {
		total := *p.TotalQuantity
		p.TotalQuantity = &total
	}
	if p.Warehouses != nil {
		warehouses := make([]Warehouse, len(p.Warehouses))
		for i, w := range p.Warehouses {
			warehouses[i] = w.Clone()
		}
		p.Warehouses = warehouses
	}
	return p
}

// EmbeddedQuantity sums the QOH of the embedded warehouse snapshots.
func (p Product) EmbeddedQuantity() int {
	total := 0
	for _, w := range p.Warehouses {
		total += w.QOH
	}
	return total
}
