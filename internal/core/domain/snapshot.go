package domain

// ReplaceEmbeddedWarehouse returns products with every embedded copy of w
// replaced in place and the number of products that held one. Touched
// products get TotalQuantity recomputed. The input slice is not modified.
func ReplaceEmbeddedWarehouse(products []Product, w Warehouse) ([]Product, int) {
	out := make([]Product, len(products))
	touched := 0
	for i, p := range products {
		idx := embeddedIndex(p.Warehouses, w.WarehouseID)
		if idx < 0 {
			out[i] = p
			continue
		}

		warehouses := make([]Warehouse, len(p.Warehouses))
		copy(warehouses, p.Warehouses)
		warehouses[idx] = w.Clone()
		p.Warehouses = warehouses
		p.TotalQuantity = intPtr(p.EmbeddedQuantity())

		out[i] = p
		touched++
	}
	return out, touched
}

// RemoveEmbeddedWarehouse returns products with the embedded copy of the
// warehouse removed and the number of products that held one.
func RemoveEmbeddedWarehouse(products []Product, warehouseID int) ([]Product, int) {
	out := make([]Product, len(products))
	touched := 0
	for i, p := range products {
		idx := embeddedIndex(p.Warehouses, warehouseID)
		if idx < 0 {
			out[i] = p
			continue
		}

		warehouses := make([]Warehouse, 0, len(p.Warehouses)-1)
		warehouses = append(warehouses, p.Warehouses[:idx]...)
		warehouses = append(warehouses, p.Warehouses[idx+1:]...)
		p.Warehouses = warehouses
		p.TotalQuantity = intPtr(p.EmbeddedQuantity())

		out[i] = p
		touched++
	}
	return out, touched
}

// WithWarehouses returns p with its snapshot list rebuilt from the canonical records.
func (p Product) WithWarehouses(warehouses []Warehouse) Product {
	p.Warehouses = make([]Warehouse, len(warehouses))
	for i, w := range warehouses {
		p.Warehouses[i] = w.Clone()
	}
	p.TotalQuantity = intPtr(p.EmbeddedQuantity())
	return p
}

func embeddedIndex(warehouses []Warehouse, warehouseID int) int {
	for i, w := range warehouses {
		if w.WarehouseID == warehouseID {
			return i
		}
	}
	return -1
}

func intPtr(v int) *int { return &v }
