package models

import "time"

// PeriodStatus indicates whether an accounting period admits new postings.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodLocked PeriodStatus = "LOCKED"
	PeriodClosed PeriodStatus = "CLOSED"
)

// Period is a date range postings fall into. Bounds are inclusive date-only
// values stored at midnight UTC.
type Period struct {
	PeriodID  string       `json:"periodID"`  // Primary Key (UUID)
	CompanyID string       `json:"companyID"` // FK -> Company.companyID (Not Null)
	Name      string       `json:"name"`      // e.g. "Jul 2025"
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"` // OPEN, LOCKED or CLOSED
	AuditFields
}
