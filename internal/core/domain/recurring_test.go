package domain_test

import (
	"testing"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestFrequency_NextAfter(t *testing.T) {
	from := day(2025, time.March, 15)

	tests := []struct {
		name string
		freq domain.Frequency
		want time.Time
	}{
		{name: "weekly", freq: domain.Weekly, want: day(2025, time.March, 22)},
		{name: "fortnightly", freq: domain.Fortnightly, want: day(2025, time.March, 29)},
		{name: "monthly", freq: domain.Monthly, want: day(2025, time.April, 15)},
		{name: "quarterly", freq: domain.Quarterly, want: day(2025, time.June, 15)},
		{name: "yearly", freq: domain.Yearly, want: day(2026, time.March, 15)},
		{name: "unknown frequency stays put", freq: domain.Frequency("DAILY"), want: from},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.freq.NextAfter(from)))
		})
	}
}

func TestFrequency_NextAfter_MonthEndNormalizes(t *testing.T) {
	// Jan 31 + one month lands in early March per calendar arithmetic.
	next := domain.Monthly.NextAfter(day(2025, time.January, 31))
	assert.True(t, day(2025, time.March, 3).Equal(next))
}
