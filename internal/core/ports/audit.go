package ports

import (
	"context"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

// AuditRepository persists audit events. Implementations are append-only.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// Auditor accepts audit events for asynchronous recording. Enqueue must be
// cheap and non-blocking from the caller's perspective; loss on overflow is
// acceptable, loss of ordering per actor is not.
type Auditor interface {
	Enqueue(event domain.AuditEvent)
}
