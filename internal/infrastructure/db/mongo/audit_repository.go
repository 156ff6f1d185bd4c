package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository persists audit events. Append-only: there is no update or
// delete path by design of the collection, only inserts.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Actor      string `bson:"actor"`
	Action     string `bson:"action"`
	TargetID   int    `bson:"target_id,omitempty"`
	Detail     string `bson:"detail,omitempty"`
	OccurredAt int64  `bson:"occurred_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := auditDoc{
		Actor:      event.Actor,
		Action:     event.Action,
		TargetID:   event.TargetID,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
