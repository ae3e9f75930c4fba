package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	PlanStatusActive   = "active"
	PlanStatusInactive = "inactive"
)

// Plan describes a subscription tier and its per-resource limits.
// A nil limit means the plan places no cap on that resource kind.
type Plan struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"name" validate:"required,min=2,max=100"`
	Price              float64        `gorm:"type:numeric(18,2);not null" json:"price" validate:"gte=0"`
	Features           string         `gorm:"type:text" json:"features"`
	ProfessionalsLimit *int           `json:"professionals_limit,omitempty" validate:"omitempty,gte=0"`
	TeamsLimit         *int           `json:"teams_limit,omitempty" validate:"omitempty,gte=0"`
	CustomersLimit     *int           `json:"customers_limit,omitempty" validate:"omitempty,gte=0"`
	AppointmentsLimit  *int           `json:"appointments_limit,omitempty" validate:"omitempty,gte=0"`
	DurationDays       int            `gorm:"not null;default:30" json:"duration_days" validate:"gt=0"`
	Status             string         `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"oneof=active inactive"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// LimitFor returns the plan limit for a resource kind. The second
// return value is false when the plan is unlimited for that kind.
func (p *Plan) LimitFor(kind string) (int, bool) {
	var limit *int
	switch kind {
	case ResourceProfessionals:
		limit = p.ProfessionalsLimit
	case ResourceTeams:
		limit = p.TeamsLimit
	case ResourceCustomers:
		limit = p.CustomersLimit
	case ResourceAppointments:
		limit = p.AppointmentsLimit
	}
	if limit == nil {
		return 0, false
	}
	return *limit, true
}

// Resource kinds countable against plan limits.
const (
	ResourceProfessionals = "professionals"
	ResourceTeams         = "teams"
	ResourceCustomers     = "customers"
	ResourceAppointments  = "appointments"
)
