package domain

import "time"

type EventType string

const (
	EventProductCreated     EventType = "product.created"
	EventProductUpdated     EventType = "product.updated"
	EventProductDeleted     EventType = "product.deleted"
	EventWarehouseCreated   EventType = "warehouse.created"
	EventWarehouseUpdated   EventType = "warehouse.updated"
	EventWarehouseDeleted   EventType = "warehouse.deleted"
	EventTransactionApplied EventType = "transaction.applied"
)

// Event describes a committed change. Key is the partitioning key
// (the warehouse or product ID).
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// JournalEntry is an applied transaction together with the QOH it produced.
type JournalEntry struct {
	ID          string
	Transaction InventoryTransaction
	QOHAfter    int
	RecordedAt  time.Time
}
