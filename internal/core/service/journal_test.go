package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/metrics"
)

func TestJournal_WritesAndDrains(t *testing.T) {
	sink := &mockJournalSink{}
	m := metrics.NewRegistry()
	j := NewJournal(sink, 3, 100, nil, m)
	j.Start()

	for i := 1; i <= 50; i++ {
		require.True(t, j.Enqueue(domain.JournalEntry{ID: "e", Transaction: addStock(i, 1)}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, j.Close(ctx))

	assert.Equal(t, 50, sink.count())
	assert.Equal(t, 50.0, testutil.ToFloat64(m.JournalWritten))
	assert.False(t, j.Enqueue(domain.JournalEntry{ID: "late"}))
}

func TestJournal_DropsWhenFull(t *testing.T) {
	sink := &mockJournalSink{block: make(chan struct{})}
	m := metrics.NewRegistry()
	j := NewJournal(sink, 1, 1, nil, m)
	j.Start()

	// one entry held by the worker, one in the queue, the rest dropped
	accepted := 0
	for i := 0; i < 10; i++ {
		if j.Enqueue(domain.JournalEntry{ID: "e"}) {
			accepted++
		}
		time.Sleep(time.Millisecond)
	}
	assert.LessOrEqual(t, accepted, 2)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.JournalDropped), 8.0)

	close(sink.block)
	require.NoError(t, j.Close(context.Background()))
	assert.Equal(t, accepted, sink.count())
}

func TestJournal_FailuresCounted(t *testing.T) {
	sink := &mockJournalSink{fail: true}
	m := metrics.NewRegistry()
	j := NewJournal(sink, 2, 10, nil, m)
	j.Start()

	j.Enqueue(domain.JournalEntry{ID: "a"})
	j.Enqueue(domain.JournalEntry{ID: "b"})
	require.NoError(t, j.Close(context.Background()))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.JournalFailed))
	assert.Equal(t, 0, sink.count())
}

func TestTransactionService_Journals(t *testing.T) {
	sink := &mockJournalSink{}
	j := NewJournal(sink, 2, 10, nil, nil)
	j.Start()

	s := newTestStack(t, WithJournal(j))
	s.seedScenario(t)

	_, err := s.txSvc.ApplyTransaction(context.Background(), addStock(0, 20))
	require.NoError(t, err)
	require.NoError(t, j.Close(context.Background()))

	require.Equal(t, 1, sink.count())
	entry := sink.entries[0]
	assert.Equal(t, 70, entry.QOHAfter)
	assert.Equal(t, 20, entry.Transaction.Amount)
	assert.NotEmpty(t, entry.ID)
}
