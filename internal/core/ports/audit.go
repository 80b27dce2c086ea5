package ports

import (
	"context"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// AuditRepository persists append-only audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

// AuditSink accepts audit events for asynchronous recording. Enqueue must be
// cheap and must never fail the calling request.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
