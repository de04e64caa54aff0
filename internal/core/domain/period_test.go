package domain_test

import (
	"testing"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriod_Covers(t *testing.T) {
	july := domain.Period{
		Name:      "Jul 2025",
		StartDate: day(2025, time.July, 1),
		EndDate:   day(2025, time.July, 31),
		Status:    domain.PeriodOpen,
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{name: "first day inclusive", date: day(2025, time.July, 1), want: true},
		{name: "last day inclusive", date: day(2025, time.July, 31), want: true},
		{name: "mid period", date: day(2025, time.July, 15), want: true},
		{name: "day before", date: day(2025, time.June, 30), want: false},
		{name: "day after", date: day(2025, time.August, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, july.Covers(tt.date))
		})
	}
}

func TestPeriodStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.PeriodStatus
		to   domain.PeriodStatus
		want bool
	}{
		{name: "open can lock", from: domain.PeriodOpen, to: domain.PeriodLocked, want: true},
		{name: "open can close", from: domain.PeriodOpen, to: domain.PeriodClosed, want: true},
		{name: "locked can reopen", from: domain.PeriodLocked, to: domain.PeriodOpen, want: true},
		{name: "locked can close", from: domain.PeriodLocked, to: domain.PeriodClosed, want: true},
		{name: "closed never reopens", from: domain.PeriodClosed, to: domain.PeriodOpen, want: false},
		{name: "closed never locks", from: domain.PeriodClosed, to: domain.PeriodLocked, want: false},
		{name: "open to open is not a transition", from: domain.PeriodOpen, to: domain.PeriodOpen, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
