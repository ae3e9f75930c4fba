package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

const (
	RecurrenceStatusActive    = "active"
	RecurrenceStatusPaused    = "paused"
	RecurrenceStatusCancelled = "cancelled"
	RecurrenceStatusExhausted = "exhausted"
)

// Recurrence is the cadence template that generates appointment
// occurrences. Day holds a weekday (0=Sunday..6=Saturday) for weekly
// and biweekly rules, or a day of month (1..31) for monthly rules.
// TimeOfDay is minutes from midnight UTC.
type Recurrence struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CompanyID       uint           `gorm:"not null;index" json:"company_id" validate:"required"`
	CustomerID      *uint          `gorm:"index" json:"customer_id,omitempty"`
	TeamID          *uint          `gorm:"index" json:"team_id,omitempty"`
	Title           string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description     string         `gorm:"type:text" json:"description,omitempty"`
	Address         string         `gorm:"type:text" json:"address,omitempty"`
	Frequency       string         `gorm:"type:varchar(20);not null" json:"frequency" validate:"oneof=weekly biweekly monthly"`
	Day             int            `gorm:"not null" json:"day" validate:"gte=0,lte=31"`
	TimeOfDay       int            `gorm:"not null" json:"time_of_day" validate:"gte=0,lt=1440"`
	DurationMinutes int            `gorm:"not null" json:"duration_minutes" validate:"gt=0"`
	Status          string         `gorm:"type:varchar(20);default:'active';index:idx_recurrences_status_next,priority:1" json:"status" validate:"oneof=active paused cancelled exhausted"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	LastExecution   *time.Time     `json:"last_execution,omitempty"`
	NextExecution   *time.Time     `gorm:"index:idx_recurrences_status_next,priority:2" json:"next_execution,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Recurrence) Validate() error {
	v := validator.New()
	if err := v.Struct(r); err != nil {
		return err
	}
	switch r.Frequency {
	case FrequencyMonthly:
		if r.Day < 1 || r.Day > 31 {
			return &FieldError{Field: "day", Reason: "monthly rules need a day of month between 1 and 31"}
		}
	default:
		if r.Day < 0 || r.Day > 6 {
			return &FieldError{Field: "day", Reason: "weekly rules need a weekday between 0 (Sunday) and 6 (Saturday)"}
		}
	}
	if r.EndDate != nil && !r.EndDate.After(r.StartDate) {
		return &FieldError{Field: "end_date", Reason: "end date must fall after the start date"}
	}
	return nil
}

// NormalizeFrequency maps arbitrary input casing onto the closed
// frequency enum, defaulting to weekly.
func NormalizeFrequency(f string) string {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case FrequencyBiweekly:
		return FrequencyBiweekly
	case FrequencyMonthly:
		return FrequencyMonthly
	default:
		return FrequencyWeekly
	}
}

// IsTerminal reports whether the recurrence can never produce further
// appointments. Cancelled and exhausted are both terminal; they are
// distinct so tenants can tell a deliberate stop from a ran-out rule.
func (r *Recurrence) IsTerminal() bool {
	return r.Status == RecurrenceStatusCancelled || r.Status == RecurrenceStatusExhausted
}

// CanTransitionTo enforces the recurrence state machine:
// active <-> paused, active|paused -> cancelled, active -> exhausted.
func (r *Recurrence) CanTransitionTo(next string) bool {
	if r.IsTerminal() {
		return false
	}
	switch next {
	case RecurrenceStatusActive, RecurrenceStatusPaused:
		return true
	case RecurrenceStatusCancelled:
		return true
	case RecurrenceStatusExhausted:
		return r.Status == RecurrenceStatusActive
	default:
		return false
	}
}

// FieldError is a single-field validation failure raised by model
// checks that validator tags cannot express.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}
