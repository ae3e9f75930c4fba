package scheduling

import (
	"time"

	"github.com/maidsflow/control-api/app/repository"
)

// ConflictDetector checks a proposed time window against existing
// non-cancelled appointments for the same team or professional.
type ConflictDetector struct {
	appointments repository.AppointmentRepository
}

// NewConflictDetector creates a detector backed by the appointment
// repository.
func NewConflictDetector(appointments repository.AppointmentRepository) *ConflictDetector {
	return &ConflictDetector{appointments: appointments}
}

// Check returns the ids of appointments colliding with [start, end)
// for the given team/professional. An empty result means the slot is
// free. Windows touching at their edges do not conflict.
func (d *ConflictDetector) Check(companyID uint, teamID, professionalID *uint, start, end time.Time) ([]uint, error) {
	if teamID == nil && professionalID == nil {
		return nil, nil
	}
	return d.appointments.FindOverlapping(companyID, teamID, professionalID, start, end)
}
