package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	AppointmentStatusScheduled  = "scheduled"
	AppointmentStatusConfirmed  = "confirmed"
	AppointmentStatusInProgress = "in_progress"
	AppointmentStatusCompleted  = "completed"
	AppointmentStatusCancelled  = "cancelled"
)

const (
	AppointmentTypeOneTime   = "one_time"
	AppointmentTypeRecurring = "recurring"
)

type Appointment struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Title              string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Address            string         `gorm:"type:text" json:"address"`
	Start              time.Time      `gorm:"not null;index" json:"start"`
	End                time.Time      `gorm:"not null" json:"end"`
	CompanyID          uint           `gorm:"not null;index" json:"company_id" validate:"required"`
	CustomerID         *uint          `gorm:"index" json:"customer_id,omitempty"`
	TeamID             *uint          `gorm:"index" json:"team_id,omitempty"`
	ProfessionalID     *uint          `gorm:"index" json:"professional_id,omitempty"`
	Status             string         `gorm:"type:varchar(20);default:'scheduled';index" json:"status" validate:"oneof=scheduled confirmed in_progress completed cancelled"`
	Type               string         `gorm:"type:varchar(20);default:'one_time'" json:"type" validate:"oneof=one_time recurring"`
	SourceRecurrenceID *uint          `gorm:"index" json:"source_recurrence_id,omitempty"`
	Notes              string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Appointment) Validate() error {
	v := validator.New()
	if err := v.Struct(a); err != nil {
		return err
	}
	if !a.Start.Before(a.End) {
		return &FieldError{Field: "start", Reason: "appointment start must precede its end"}
	}
	return nil
}

// IsTerminal reports whether no further status transition is allowed.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}

// CanTransitionTo enforces the appointment state machine:
// scheduled -> confirmed -> in_progress -> completed, and any
// non-terminal status -> cancelled.
func (a *Appointment) CanTransitionTo(next string) bool {
	if a.IsTerminal() {
		return false
	}
	switch next {
	case AppointmentStatusConfirmed:
		return a.Status == AppointmentStatusScheduled
	case AppointmentStatusInProgress:
		return a.Status == AppointmentStatusConfirmed
	case AppointmentStatusCompleted:
		return a.Status == AppointmentStatusInProgress
	case AppointmentStatusCancelled:
		return true
	default:
		return false
	}
}

// CancellableStatuses is the set of statuses from which a cancellation
// may proceed; used for the conditional status update at the storage
// boundary.
func CancellableStatuses() []string {
	return []string{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
	}
}
