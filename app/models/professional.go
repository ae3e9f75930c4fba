package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ProfessionalStatusActive   = "active"
	ProfessionalStatusInactive = "inactive"
	ProfessionalStatusOnLeave  = "on_leave"
)

type Professional struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Cpf               string         `gorm:"type:varchar(14)" json:"cpf"`
	Email             string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Phone             string         `gorm:"type:varchar(30)" json:"phone"`
	TeamID            *uint          `gorm:"index" json:"team_id,omitempty"`
	CompanyID         uint           `gorm:"not null;index" json:"company_id" validate:"required"`
	Status            string         `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"oneof=active inactive on_leave"`
	Rating            *float64       `gorm:"type:numeric(4,2)" json:"rating,omitempty"`
	CompletedServices *int           `json:"completed_services,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Professional) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
