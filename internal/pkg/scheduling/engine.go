package scheduling

import (
	"time"

	"github.com/maidsflow/control-api/app/models"
)

// Rule is the pure-computation view of a recurrence cadence. Day is a
// weekday (0=Sunday..6=Saturday) for weekly and biweekly rules, or a
// day of month for monthly rules. TimeOfDay is minutes from midnight
// UTC.
type Rule struct {
	Frequency string
	Day       int
	TimeOfDay int
	StartDate time.Time
	EndDate   *time.Time
}

// RuleFromRecurrence extracts the cadence rule of a recurrence model.
func RuleFromRecurrence(rec *models.Recurrence) Rule {
	return Rule{
		Frequency: rec.Frequency,
		Day:       rec.Day,
		TimeOfDay: rec.TimeOfDay,
		StartDate: rec.StartDate.UTC(),
		EndDate:   rec.EndDate,
	}
}

// ComputeNextExecution returns the earliest occurrence of the rule
// strictly after ref, or ok=false when the rule is exhausted because
// that occurrence would fall past the rule's end date.
//
// The function is deterministic and does no I/O; materialization
// retries rely on recomputing the same instant from the same inputs.
func ComputeNextExecution(rule Rule, ref time.Time) (next time.Time, ok bool) {
	ref = ref.UTC()

	// Clamp the reference so the first occurrence can land exactly on
	// the start date while still being strictly after the caller's
	// reference instant.
	if rule.StartDate.After(ref) {
		ref = rule.StartDate.Add(-time.Nanosecond)
	}

	switch rule.Frequency {
	case models.FrequencyBiweekly:
		next = nextByWeek(rule, ref, 14)
	case models.FrequencyMonthly:
		next = nextMonthly(rule, ref)
	default:
		next = nextByWeek(rule, ref, 7)
	}

	if rule.EndDate != nil && next.After(rule.EndDate.UTC()) {
		return time.Time{}, false
	}
	return next, true
}

// nextByWeek handles weekly and biweekly cadences. The biweekly series
// is anchored to the first weekday-matching occurrence on or after the
// rule's start date; occurrences repeat every stepDays from there.
func nextByWeek(rule Rule, ref time.Time, stepDays int) time.Time {
	anchor := atTimeOfDay(advanceToWeekday(dateOf(rule.StartDate), rule.Day), rule.TimeOfDay)
	if anchor.After(ref) {
		return anchor
	}

	step := time.Duration(stepDays) * 24 * time.Hour
	periods := ref.Sub(anchor) / step
	return anchor.Add((periods + 1) * step)
}

// nextMonthly walks month by month from the reference, clamping the
// configured day of month to the month's length (day 31 in February
// yields the 28th or 29th).
func nextMonthly(rule Rule, ref time.Time) time.Time {
	year, month, _ := ref.Date()
	for {
		day := rule.Day
		if last := daysInMonth(year, month); day > last {
			day = last
		}
		candidate := atTimeOfDay(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), rule.TimeOfDay)
		if candidate.After(ref) {
			return candidate
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func atTimeOfDay(date time.Time, minutes int) time.Time {
	return date.Add(time.Duration(minutes) * time.Minute)
}

func advanceToWeekday(date time.Time, weekday int) time.Time {
	offset := (weekday - int(date.Weekday()) + 7) % 7
	return date.AddDate(0, 0, offset)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
