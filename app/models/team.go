package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	TeamStatusActive   = "active"
	TeamStatusInactive = "inactive"
)

type Team struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Region            string         `gorm:"type:varchar(100)" json:"region"`
	Description       string         `gorm:"type:text" json:"description"`
	Rating            float64        `gorm:"type:numeric(4,2);default:0" json:"rating"`
	CompletedServices int            `gorm:"default:0" json:"completed_services"`
	Status            string         `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"oneof=active inactive"`
	CompanyID         uint           `gorm:"not null;index" json:"company_id" validate:"required"`
	LeaderID          *uint          `gorm:"index" json:"leader_id,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Team) Validate() error {
	v := validator.New()

	return v.Struct(t)
}
