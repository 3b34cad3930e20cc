package models

import "time"

// ActivityLog mirrors the activity_logs row consumed by the external audit
// sink. Delivery guarantees are the sink's concern, not this core's.
type ActivityLog struct {
	ID           string
	CompanyID    string
	ActorID      *string
	ActivityKind string
	ActorLabel   string
	Action       string
	Details      []byte // JSON payload
	CreatedAt    time.Time
}
