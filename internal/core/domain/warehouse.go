package domain

const (
	MinQOH = 0
	MaxQOH = 1_000_000
)

type Address struct {
	Street  string `json:"street" validate:"required,min=5,max=50"`
	City    string `json:"city" validate:"required,min=5,max=25"`
	Country string `json:"country" validate:"required,min=2,max=25"`
}

type Warehouse struct {
	WarehouseID   int                    `json:"warehouseId" validate:"min=1"`
	ProductID     int                    `json:"productId" validate:"min=1"`
	WarehouseName string                 `json:"warehouseName" validate:"required,min=5,max=25"`
	International bool                   `json:"international"`
	Address       Address                `json:"address"`
	QOH           int                    `json:"qoh" validate:"min=0,max=1000000"`
	Transactions  []InventoryTransaction `json:"transactions,omitempty"`
}

// Clone returns a copy that shares no slices with w.
func (w Warehouse) Clone() Warehouse {
	if w.Transactions != nil {
		w.Transactions = append(make([]InventoryTransaction, 0, len(w.Transactions)), w.Transactions...)
	}
	return w
}

// Apply adds the signed amount of tx to QOH and records tx in the history.
// The warehouse is left untouched when the result would leave [MinQOH, MaxQOH].
func (w *Warehouse) Apply(tx InventoryTransaction) error {
	if tx.WarehouseID != w.WarehouseID {
		return NewValidationError(FieldError{
			Value: tx.WarehouseID,
			Msg:   "warehouse ID does not match the target warehouse",
			Param: "warehouseId",
		})
	}
	if tx.ProductID != w.ProductID {
		return NewValidationError(FieldError{
			Value: tx.ProductID,
			Msg:   "product is not stocked by this warehouse",
			Param: "productId",
		})
	}

	qoh := w.QOH + tx.Delta()
	if qoh < MinQOH || qoh > MaxQOH {
		return NewValidationError(FieldError{
			Value: tx.Amount,
			Msg:   "quantity on hand must be between 0 and 1m",
			Param: "amount",
		})
	}

	w.QOH = qoh
	w.Transactions = append(w.Transactions, tx)
	return nil
}
