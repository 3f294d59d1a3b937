package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/port"
)

var _ port.TransactionJournal = (*MySQLAdapter)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS inventory_transactions (
		id CHAR(36) PRIMARY KEY,
		transaction_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		warehouse_id BIGINT NOT NULL,
		transaction_type VARCHAR(16) NOT NULL,
		amount INT NOT NULL,
		qoh_after INT NOT NULL,
		recorded_at DATETIME(6) NOT NULL,
		INDEX idx_inventory_transactions_warehouse (warehouse_id)
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_stock (
		warehouse_id BIGINT PRIMARY KEY,
		qoh INT NOT NULL,
		last_transaction_id BIGINT NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
}

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// RecordTransaction appends the journal row and moves the warehouse_stock
// watermark in one database transaction.
func (m *MySQLAdapter) RecordTransaction(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	t := entry.Transaction
	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_transactions
			(id, transaction_id, product_id, warehouse_id, transaction_type, amount, qoh_after, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, t.TransactionID, t.ProductID, t.WarehouseID, string(t.TransactionType),
		t.Amount, entry.QOHAfter, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO warehouse_stock (warehouse_id, qoh, last_transaction_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			qoh = IF(VALUES(updated_at) >= updated_at, VALUES(qoh), qoh),
			last_transaction_id = IF(VALUES(updated_at) >= updated_at, VALUES(last_transaction_id), last_transaction_id),
			updated_at = GREATEST(updated_at, VALUES(updated_at))`,
		t.WarehouseID, entry.QOHAfter, t.TransactionID, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert warehouse stock: %w", err)
	}

	return tx.Commit()
}

// CountTransactions returns how many journal rows exist for a warehouse.
func (m *MySQLAdapter) CountTransactions(ctx context.Context, warehouseID int) (int, error) {
	var count int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory_transactions WHERE warehouse_id = ?`, warehouseID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}
