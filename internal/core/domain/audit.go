package domain

import "time"

// Audit actions recorded for security-relevant operations.
const (
	AuditLoginSucceeded  = "login_succeeded"
	AuditLoginFailed     = "login_failed"
	AuditUserCreated     = "user_created"
	AuditUserModified    = "user_modified"
	AuditUserDeleted     = "user_deleted"
	AuditUserActiveSet   = "user_active_set"
	AuditPasswordChanged = "password_changed"
)

// AuditEvent is an append-only record of a security-relevant action.
// Actor is the username that performed (or attempted) the action; it is also
// the sharding key for the async audit pipeline, so events of one actor are
// persisted in order.
type AuditEvent struct {
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	TargetID   int       `json:"target_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
