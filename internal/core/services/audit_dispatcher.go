package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	portssvc "github.com/munshibooks/munshi_backend/internal/core/ports/services"
)

const (
	defaultAuditBuffer  = 256
	auditDeliveryWindow = 5 * time.Second
)

// AuditDispatcher delivers audit events to the activity-log sink on its own
// goroutine. Delivery is best-effort: a full buffer or a failed write is
// logged and dropped, never surfaced to the operation that emitted the
// event.
type AuditDispatcher struct {
	repo   portsrepo.AuditLogRepository
	logger *slog.Logger
	events chan domain.AuditEvent
	done   chan struct{}
}

// NewAuditDispatcher starts the delivery worker.
func NewAuditDispatcher(repo portsrepo.AuditLogRepository, logger *slog.Logger) *AuditDispatcher {
	d := &AuditDispatcher{
		repo:   repo,
		logger: logger,
		events: make(chan domain.AuditEvent, defaultAuditBuffer),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

var _ portssvc.AuditPublisher = (*AuditDispatcher)(nil)

// Emit queues an event without blocking. When the buffer is full the event
// is dropped and the drop is logged.
func (d *AuditDispatcher) Emit(event domain.AuditEvent) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("Audit buffer full, event dropped",
			slog.String("action", event.Action),
			slog.String("company_id", event.CompanyID))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *AuditDispatcher) Close() {
	close(d.events)
	<-d.done
}

func (d *AuditDispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		ctx, cancel := context.WithTimeout(context.Background(), auditDeliveryWindow)
		err := d.repo.SaveEvent(ctx, event)
		cancel()
		if err != nil {
			// The primary operation already succeeded; this is a warning for
			// operators, not an error for callers.
			d.logger.Warn("Audit event write failed",
				slog.String("action", event.Action),
				slog.String("company_id", event.CompanyID),
				slog.String("error", err.Error()))
		}
	}
}
