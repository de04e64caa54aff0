package domain

import "time"

// AuditEventType names a recorded business event.
type AuditEventType string

const (
	AuditTxnPosted       AuditEventType = "TRANSACTION_POSTED"
	AuditTxnReversed     AuditEventType = "TRANSACTION_REVERSED"
	AuditAllocCreated    AuditEventType = "ALLOCATION_CREATED"
	AuditDocIssued       AuditEventType = "DOCUMENT_ISSUED"
	AuditPeriodLocked    AuditEventType = "PERIOD_LOCKED"
	AuditPeriodUnlocked  AuditEventType = "PERIOD_UNLOCKED"
	AuditPeriodClosed    AuditEventType = "PERIOD_CLOSED"
	AuditEntryMatched    AuditEventType = "ENTRY_MATCHED"
	AuditEntryUnmatched  AuditEventType = "ENTRY_UNMATCHED"
	AuditEntryCleared    AuditEventType = "ENTRY_MANUAL_CLEARED"
	AuditTemplateRun     AuditEventType = "TEMPLATE_RUN"
)

// AuditEvent is an append-only record of who did what to which entity.
// Events that belong to a posting or allocation are written in the same
// database transaction as the change they describe.
type AuditEvent struct {
	EventID    string         `json:"eventID"` // Primary Key (UUID)
	CompanyID  string         `json:"companyID"`
	ActorID    string         `json:"actorID"`
	EventType  AuditEventType `json:"eventType"`
	EntityType string         `json:"entityType"` // e.g. "TRANSACTION", "PERIOD"
	EntityID   string         `json:"entityID"`
	Summary    string         `json:"summary"`
	CreatedAt  time.Time      `json:"createdAt"`
}
