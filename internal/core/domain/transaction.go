package domain

type TransactionType string

const (
	TransactionTypeAddStock    TransactionType = "AddStock"
	TransactionTypeRemoveStock TransactionType = "RemoveStock"
)

type InventoryTransaction struct {
	TransactionID   int             `json:"transactionId" validate:"min=0"`
	ProductID       int             `json:"productId" validate:"min=1"`
	WarehouseID     int             `json:"warehouseId" validate:"min=1"`
	TransactionType TransactionType `json:"transactionType" validate:"oneof=AddStock RemoveStock"`
	Amount          int             `json:"amount" validate:"min=0,max=1000000"`
}

// Delta is the signed QOH change carried by the transaction.
func (t InventoryTransaction) Delta() int {
	if t.TransactionType == TransactionTypeRemoveStock {
		return -t.Amount
	}
	return t.Amount
}
