package domain

import "time"

// PeriodStatus indicates whether an accounting period admits new postings.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodLocked PeriodStatus = "LOCKED"
	PeriodClosed PeriodStatus = "CLOSED" // Terminal; closed periods never reopen
)

// IsValid reports whether s is one of the known period statuses.
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodOpen, PeriodLocked, PeriodClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a period may move from s to next.
// OPEN and LOCKED flip freely between each other and either may close;
// CLOSED is terminal.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	switch s {
	case PeriodOpen:
		return next == PeriodLocked || next == PeriodClosed
	case PeriodLocked:
		return next == PeriodOpen || next == PeriodClosed
	case PeriodClosed:
		return false
	default:
		return false
	}
}

// Period is a date range postings fall into. Only OPEN periods admit postings.
// Dates are date-only values (midnight UTC); bounds are inclusive.
type Period struct {
	PeriodID  string       `json:"periodID"`  // Primary Key (UUID)
	CompanyID string       `json:"companyID"` // FK -> companies.company_id
	Name      string       `json:"name"`      // e.g. "Jul 2025"
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Covers reports whether date falls within the period, bounds inclusive.
func (p Period) Covers(date time.Time) bool {
	if date.Before(p.StartDate) {
		return false
	}
	return !date.After(p.EndDate)
}
