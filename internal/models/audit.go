package models

import "time"

// AuditEventType names a recorded business event.
type AuditEventType string

// AuditEvent is an append-only record of who did what to which entity.
type AuditEvent struct {
	EventID    string         `json:"eventID"`   // Primary Key (UUID)
	CompanyID  string         `json:"companyID"` // FK -> Company.companyID (Not Null)
	ActorID    string         `json:"actorID"`
	EventType  AuditEventType `json:"eventType"`
	EntityType string         `json:"entityType"` // e.g. "TRANSACTION", "PERIOD"
	EntityID   string         `json:"entityID"`
	Summary    string         `json:"summary"`
	CreatedAt  time.Time      `json:"createdAt"`
}
