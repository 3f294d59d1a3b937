package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                 *prometheus.Registry
	TransactionsApplied *prometheus.CounterVec
	TransactionsFailed  *prometheus.CounterVec
	SnapshotsReplaced   prometheus.Counter
	SnapshotsRemoved    prometheus.Counter
	JournalWritten      prometheus.Counter
	JournalFailed       prometheus.Counter
	JournalDropped      prometheus.Counter
	MirrorFailed        prometheus.Counter
	EventsFailed        prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_transactions_applied_total",
		Help: "Inventory transactions applied, by transaction type.",
	}, []string{"type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_transactions_rejected_total",
		Help: "Inventory transactions rejected, by reason.",
	}, []string{"reason"})
	replaced := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_snapshots_replaced_total"})
	removed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_snapshots_removed_total"})
	journalWritten := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_journal_written_total"})
	journalFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_journal_failed_total"})
	journalDropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_journal_dropped_total"})
	mirrorFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_mirror_failed_total"})
	eventsFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_events_failed_total"})

	r.MustRegister(applied, failed, replaced, removed, journalWritten, journalFailed, journalDropped, mirrorFailed, eventsFailed)
	return &Registry{
		reg:                 r,
		TransactionsApplied: applied,
		TransactionsFailed:  failed,
		SnapshotsReplaced:   replaced,
		SnapshotsRemoved:    removed,
		JournalWritten:      journalWritten,
		JournalFailed:       journalFailed,
		JournalDropped:      journalDropped,
		MirrorFailed:        mirrorFailed,
		EventsFailed:        eventsFailed,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
