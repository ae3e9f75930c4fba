package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validAppointment() Appointment {
	return Appointment{
		Title:     "Office cleaning",
		CompanyID: 7,
		Start:     time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		End:       time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC),
		Status:    AppointmentStatusScheduled,
		Type:      AppointmentTypeOneTime,
	}
}

func TestAppointmentValidate(t *testing.T) {
	a := validAppointment()
	assert.NoError(t, a.Validate())

	a = validAppointment()
	a.Title = ""
	assert.Error(t, a.Validate())

	a = validAppointment()
	a.Status = "pending"
	assert.Error(t, a.Validate())

	// Zero-length and inverted windows are both rejected.
	a = validAppointment()
	a.End = a.Start
	assert.Error(t, a.Validate())

	a = validAppointment()
	a.Start, a.End = a.End, a.Start
	assert.Error(t, a.Validate())
}

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusConfirmed, AppointmentStatusInProgress, true},
		{AppointmentStatusInProgress, AppointmentStatusCompleted, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusInProgress, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusInProgress, false},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
		{AppointmentStatusCancelled, AppointmentStatusCancelled, false},
		{AppointmentStatusScheduled, "archived", false},
	}

	for _, tt := range tests {
		a := Appointment{Status: tt.from}
		assert.Equal(t, tt.want, a.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAppointmentIsTerminal(t *testing.T) {
	assert.True(t, (&Appointment{Status: AppointmentStatusCompleted}).IsTerminal())
	assert.True(t, (&Appointment{Status: AppointmentStatusCancelled}).IsTerminal())
	assert.False(t, (&Appointment{Status: AppointmentStatusInProgress}).IsTerminal())
}
