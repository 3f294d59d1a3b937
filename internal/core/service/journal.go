package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/metrics"
	"github.com/rl1809/product-inventory/internal/port"
)

const journalWriteTimeout = 5 * time.Second

// Journal buffers applied transactions and writes them to the sink from a
// pool of workers. A full queue drops the entry rather than block the
// transaction that produced it.
type Journal struct {
	sink    port.TransactionJournal
	queue   chan domain.JournalEntry
	workers int
	logger  *zap.Logger
	metrics *metrics.Registry

	mu     sync.RWMutex
	closed bool
	group  *errgroup.Group
}

func NewJournal(sink port.TransactionJournal, workers, queueSize int, logger *zap.Logger, m *metrics.Registry) *Journal {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Journal{
		sink:    sink,
		queue:   make(chan domain.JournalEntry, queueSize),
		workers: workers,
		logger:  logger,
		metrics: m,
	}
}

// Start launches the workers. They run until Close drains the queue.
func (j *Journal) Start() {
	j.group = new(errgroup.Group)
	for i := 0; i < j.workers; i++ {
		id := i
		j.group.Go(func() error {
			j.workerLoop(id)
			return nil
		})
	}
	j.logger.Info("journal workers started", zap.Int("workers", j.workers))
}

// Enqueue reports whether the entry was accepted.
func (j *Journal) Enqueue(entry domain.JournalEntry) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		j.metrics.JournalDropped.Inc()
		return false
	}
	select {
	case j.queue <- entry:
		return true
	default:
		j.metrics.JournalDropped.Inc()
		j.logger.Warn("journal queue full, entry dropped",
			zap.String("entry_id", entry.ID),
			zap.Int("transaction_id", entry.Transaction.TransactionID))
		return false
	}
}

// Close stops accepting entries and waits for the queued ones to be written
// or for ctx to expire.
func (j *Journal) Close(ctx context.Context) error {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.queue)
	}
	j.mu.Unlock()

	if j.group == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- j.group.Wait() }()
	select {
	case err := <-done:
		j.logger.Info("journal workers stopped")
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Journal) workerLoop(id int) {
	for entry := range j.queue {
		ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)

		if err := j.sink.RecordTransaction(ctx, entry); err != nil {
			j.metrics.JournalFailed.Inc()
			j.logger.Error("journal write failed",
				zap.Int("worker", id),
				zap.String("entry_id", entry.ID),
				zap.Int("warehouse_id", entry.Transaction.WarehouseID),
				zap.Error(err))
		} else {
			j.metrics.JournalWritten.Inc()
			j.logger.Debug("journal entry written",
				zap.Int("worker", id),
				zap.String("entry_id", entry.ID))
		}

		cancel()
	}
}
