package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maidsflow/control-api/app/models"
)

func date(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestComputeNextExecutionWeekly(t *testing.T) {
	// Monday at 09:00, starting Wed 2025-01-01.
	rule := Rule{
		Frequency: models.FrequencyWeekly,
		Day:       1,
		TimeOfDay: 9 * 60,
		StartDate: date(2025, time.January, 1, 0, 0),
	}

	tests := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{"before start date", date(2024, time.December, 1, 0, 0), date(2025, time.January, 6, 9, 0)},
		{"between occurrences", date(2025, time.January, 8, 12, 0), date(2025, time.January, 13, 9, 0)},
		{"exactly on an occurrence", date(2025, time.January, 6, 9, 0), date(2025, time.January, 13, 9, 0)},
		{"just before an occurrence", date(2025, time.January, 13, 8, 59), date(2025, time.January, 13, 9, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeNextExecution(rule, tt.ref)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestComputeNextExecutionBiweekly(t *testing.T) {
	// Anchored to the first Monday on or after the start date; every
	// occurrence is 14 days from that anchor, regardless of where the
	// reference falls inside the period.
	rule := Rule{
		Frequency: models.FrequencyBiweekly,
		Day:       1,
		TimeOfDay: 9 * 60,
		StartDate: date(2025, time.January, 1, 0, 0),
	}

	first, ok := ComputeNextExecution(rule, date(2024, time.December, 20, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.January, 6, 9, 0), first)

	second, ok := ComputeNextExecution(rule, first)
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.January, 20, 9, 0), second)

	// A reference in the skipped week still lands on the anchored
	// series, not the nearest Monday.
	fromOffWeek, ok := ComputeNextExecution(rule, date(2025, time.January, 13, 12, 0))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.January, 20, 9, 0), fromOffWeek)
}

func TestComputeNextExecutionMonthly(t *testing.T) {
	rule := Rule{
		Frequency: models.FrequencyMonthly,
		Day:       15,
		TimeOfDay: 10 * 60,
		StartDate: date(2025, time.January, 1, 0, 0),
	}

	got, ok := ComputeNextExecution(rule, date(2025, time.March, 1, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.March, 15, 10, 0), got)

	// Exactly on an occurrence moves to the next month.
	got, ok = ComputeNextExecution(rule, date(2025, time.March, 15, 10, 0))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.April, 15, 10, 0), got)
}

func TestComputeNextExecutionMonthlyClampsShortMonths(t *testing.T) {
	rule := Rule{
		Frequency: models.FrequencyMonthly,
		Day:       31,
		TimeOfDay: 8 * 60,
		StartDate: date(2025, time.January, 1, 0, 0),
	}

	got, ok := ComputeNextExecution(rule, date(2025, time.January, 31, 8, 0))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.February, 28, 8, 0), got, "non-leap February clamps to the 28th")

	got, ok = ComputeNextExecution(rule, got)
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.March, 31, 8, 0), got, "clamping does not stick for longer months")

	leap := Rule{
		Frequency: models.FrequencyMonthly,
		Day:       31,
		TimeOfDay: 8 * 60,
		StartDate: date(2024, time.January, 1, 0, 0),
	}
	got, ok = ComputeNextExecution(leap, date(2024, time.February, 1, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, date(2024, time.February, 29, 8, 0), got, "leap February clamps to the 29th")
}

func TestComputeNextExecutionEndDateExhaustion(t *testing.T) {
	end := date(2025, time.January, 10, 0, 0)
	rule := Rule{
		Frequency: models.FrequencyWeekly,
		Day:       1,
		TimeOfDay: 9 * 60,
		StartDate: date(2025, time.January, 1, 0, 0),
		EndDate:   &end,
	}

	// First occurrence (Jan 6) is inside the window.
	got, ok := ComputeNextExecution(rule, date(2025, time.January, 1, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.January, 6, 9, 0), got)

	// The following one (Jan 13) would pass the end date.
	_, ok = ComputeNextExecution(rule, got)
	assert.False(t, ok)
}

func TestComputeNextExecutionStrictlyMonotonic(t *testing.T) {
	for _, freq := range []string{models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly} {
		rule := Rule{
			Frequency: freq,
			Day:       3,
			TimeOfDay: 14 * 60,
			StartDate: date(2025, time.February, 1, 0, 0),
		}
		if freq == models.FrequencyMonthly {
			rule.Day = 28
		}

		ref := date(2025, time.January, 1, 0, 0)
		for i := 0; i < 24; i++ {
			next, ok := ComputeNextExecution(rule, ref)
			assert.True(t, ok)
			assert.True(t, next.After(ref), "%s occurrence %d must be strictly after its reference", freq, i)
			assert.False(t, next.Before(rule.StartDate), "%s occurrence %d must not precede the start date", freq, i)
			ref = next
		}
	}
}

func TestRuleFromRecurrence(t *testing.T) {
	end := date(2026, time.January, 1, 0, 0)
	rec := &models.Recurrence{
		Frequency: models.FrequencyBiweekly,
		Day:       5,
		TimeOfDay: 11 * 60,
		StartDate: date(2025, time.June, 1, 0, 0),
		EndDate:   &end,
	}

	rule := RuleFromRecurrence(rec)
	assert.Equal(t, models.FrequencyBiweekly, rule.Frequency)
	assert.Equal(t, 5, rule.Day)
	assert.Equal(t, 11*60, rule.TimeOfDay)
	assert.Equal(t, rec.StartDate, rule.StartDate)
	assert.Equal(t, rec.EndDate, rule.EndDate)
}
