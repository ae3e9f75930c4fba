package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validWeeklyRecurrence() Recurrence {
	return Recurrence{
		CompanyID:       7,
		Title:           "Weekly office cleaning",
		Frequency:       FrequencyWeekly,
		Day:             1,
		TimeOfDay:       9 * 60,
		DurationMinutes: 120,
		Status:          RecurrenceStatusActive,
		StartDate:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecurrenceValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Recurrence)
		wantErr bool
	}{
		{"valid weekly", func(r *Recurrence) {}, false},
		{"weekly sunday", func(r *Recurrence) { r.Day = 0 }, false},
		{"weekly day out of range", func(r *Recurrence) { r.Day = 7 }, true},
		{"monthly day 31", func(r *Recurrence) { r.Frequency = FrequencyMonthly; r.Day = 31 }, false},
		{"monthly day zero", func(r *Recurrence) { r.Frequency = FrequencyMonthly; r.Day = 0 }, true},
		{"unknown frequency", func(r *Recurrence) { r.Frequency = "daily" }, true},
		{"missing title", func(r *Recurrence) { r.Title = "" }, true},
		{"zero duration", func(r *Recurrence) { r.DurationMinutes = 0 }, true},
		{"time of day out of range", func(r *Recurrence) { r.TimeOfDay = 1440 }, true},
		{"end before start", func(r *Recurrence) {
			end := r.StartDate.AddDate(0, 0, -1)
			r.EndDate = &end
		}, true},
		{"end equals start", func(r *Recurrence) {
			end := r.StartDate
			r.EndDate = &end
		}, true},
		{"end after start", func(r *Recurrence) {
			end := r.StartDate.AddDate(0, 1, 0)
			r.EndDate = &end
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validWeeklyRecurrence()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeFrequency(t *testing.T) {
	assert.Equal(t, FrequencyWeekly, NormalizeFrequency("weekly"))
	assert.Equal(t, FrequencyBiweekly, NormalizeFrequency(" BiWeekly "))
	assert.Equal(t, FrequencyMonthly, NormalizeFrequency("MONTHLY"))
	assert.Equal(t, FrequencyWeekly, NormalizeFrequency(""))
	assert.Equal(t, FrequencyWeekly, NormalizeFrequency("daily"))
}

func TestRecurrenceTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{RecurrenceStatusActive, RecurrenceStatusPaused, true},
		{RecurrenceStatusPaused, RecurrenceStatusActive, true},
		{RecurrenceStatusActive, RecurrenceStatusCancelled, true},
		{RecurrenceStatusPaused, RecurrenceStatusCancelled, true},
		{RecurrenceStatusActive, RecurrenceStatusExhausted, true},
		{RecurrenceStatusPaused, RecurrenceStatusExhausted, false},
		{RecurrenceStatusCancelled, RecurrenceStatusActive, false},
		{RecurrenceStatusCancelled, RecurrenceStatusPaused, false},
		{RecurrenceStatusExhausted, RecurrenceStatusActive, false},
		{RecurrenceStatusExhausted, RecurrenceStatusCancelled, false},
		{RecurrenceStatusActive, "archived", false},
	}

	for _, tt := range tests {
		r := Recurrence{Status: tt.from}
		assert.Equal(t, tt.want, r.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRecurrenceIsTerminal(t *testing.T) {
	assert.False(t, (&Recurrence{Status: RecurrenceStatusActive}).IsTerminal())
	assert.False(t, (&Recurrence{Status: RecurrenceStatusPaused}).IsTerminal())
	assert.True(t, (&Recurrence{Status: RecurrenceStatusCancelled}).IsTerminal())
	assert.True(t, (&Recurrence{Status: RecurrenceStatusExhausted}).IsTerminal())
}
