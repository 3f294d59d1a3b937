package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/metrics"
	"github.com/rl1809/product-inventory/internal/port"
)

// Option configures the best-effort collaborators shared by the services.
type Option func(*effects)

func WithEventPublisher(publisher port.EventPublisher) Option {
	return func(e *effects) { e.events = publisher }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *effects) { e.logger = logger }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(e *effects) { e.metrics = m }
}

// effects runs the side effects that follow a committed change. None of
// them can fail the operation that triggered them.
type effects struct {
	events  port.EventPublisher
	logger  *zap.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

func newEffects(opts []Option) *effects {
	e := &effects{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.metrics == nil {
		e.metrics = metrics.NewRegistry()
	}
	return e
}

func (e *effects) publish(ctx context.Context, typ domain.EventType, key int, payload any) {
	if e.events == nil {
		return
	}
	event := domain.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Key:        strconv.Itoa(key),
		OccurredAt: e.now().UTC(),
		Payload:    payload,
	}
	if err := e.events.Publish(ctx, event); err != nil {
		e.metrics.EventsFailed.Inc()
		e.logger.Warn("publish event failed",
			zap.String("event_type", string(typ)),
			zap.String("key", event.Key),
			zap.Error(err))
	}
}
