package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maidsflow/control-api/app/models"
)

func TestConflictCheckUnassignedWindowNeverConflicts(t *testing.T) {
	occurrence := date(2025, time.March, 3, 10, 0)
	appts := newMemAppointments(&models.Appointment{
		Title:     "Booked",
		CompanyID: 7,
		TeamID:    uintPtr(3),
		Start:     occurrence,
		End:       occurrence.Add(time.Hour),
		Status:    models.AppointmentStatusScheduled,
	})
	d := NewConflictDetector(appts)

	ids, err := d.Check(7, nil, nil, occurrence, occurrence.Add(time.Hour))

	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestConflictCheckMatchesProfessional(t *testing.T) {
	occurrence := date(2025, time.March, 3, 10, 0)
	appts := newMemAppointments(&models.Appointment{
		Title:          "House visit",
		CompanyID:      7,
		ProfessionalID: uintPtr(12),
		Start:          occurrence,
		End:            occurrence.Add(time.Hour),
		Status:         models.AppointmentStatusConfirmed,
	})
	d := NewConflictDetector(appts)

	ids, err := d.Check(7, nil, uintPtr(12), occurrence.Add(30*time.Minute), occurrence.Add(90*time.Minute))
	assert.NoError(t, err)
	assert.Len(t, ids, 1)

	// A different professional is free in the same window.
	ids, err = d.Check(7, nil, uintPtr(13), occurrence.Add(30*time.Minute), occurrence.Add(90*time.Minute))
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestConflictCheckScopesByCompany(t *testing.T) {
	occurrence := date(2025, time.March, 3, 10, 0)
	appts := newMemAppointments(&models.Appointment{
		Title:     "Other tenant",
		CompanyID: 8,
		TeamID:    uintPtr(3),
		Start:     occurrence,
		End:       occurrence.Add(time.Hour),
		Status:    models.AppointmentStatusScheduled,
	})
	d := NewConflictDetector(appts)

	ids, err := d.Check(7, uintPtr(3), nil, occurrence, occurrence.Add(time.Hour))

	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestConflictCheckIgnoresCancelled(t *testing.T) {
	occurrence := date(2025, time.March, 3, 10, 0)
	appts := newMemAppointments(&models.Appointment{
		Title:     "Cancelled visit",
		CompanyID: 7,
		TeamID:    uintPtr(3),
		Start:     occurrence,
		End:       occurrence.Add(time.Hour),
		Status:    models.AppointmentStatusCancelled,
	})
	d := NewConflictDetector(appts)

	ids, err := d.Check(7, uintPtr(3), nil, occurrence, occurrence.Add(time.Hour))

	assert.NoError(t, err)
	assert.Empty(t, ids)
}
