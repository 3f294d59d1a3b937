package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rl1809/product-inventory/internal/core/domain"
)

type mockStockMirror struct {
	mu      sync.Mutex
	stock   map[int]int
	err     error
	entered chan int
	release chan struct{}
}

func newMockStockMirror() *mockStockMirror {
	return &mockStockMirror{stock: make(map[int]int)}
}

// hold makes every following SetStock report its value on the returned
// channel and wait until release is closed.
func (m *mockStockMirror) hold() (<-chan int, chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entered = make(chan int, 8)
	m.release = make(chan struct{})
	return m.entered, m.release
}

func (m *mockStockMirror) SetStock(ctx context.Context, warehouseID int, qoh int) error {
	m.mu.Lock()
	entered, release := m.entered, m.release
	m.mu.Unlock()
	if release != nil {
		entered <- qoh
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.stock[warehouseID] = qoh
	return nil
}

func (m *mockStockMirror) DeleteStock(ctx context.Context, warehouseID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stock, warehouseID)
	return nil
}

func (m *mockStockMirror) get(warehouseID int) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qoh, ok := m.stock[warehouseID]
	return qoh, ok
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) types() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventType, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

type mockJournalSink struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
	fail    bool
	block   chan struct{}
}

func (m *mockJournalSink) RecordTransaction(ctx context.Context, entry domain.JournalEntry) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("journal unavailable")
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockJournalSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
