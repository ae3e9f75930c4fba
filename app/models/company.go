package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CompanyStatusActive    = "active"
	CompanyStatusInactive  = "inactive"
	CompanyStatusSuspended = "suspended"
)

// Company is the tenant boundary. Every quota, conflict and listing
// operation is partitioned by CompanyID.
type Company struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Cnpj        string         `gorm:"type:varchar(18);uniqueIndex" json:"cnpj" validate:"required"`
	Responsible string         `gorm:"type:varchar(150)" json:"responsible"`
	Email       string         `gorm:"type:varchar(200)" json:"email" validate:"required,email"`
	Phone       string         `gorm:"type:varchar(30)" json:"phone"`
	PlanID      uint           `gorm:"index" json:"plan_id"`
	Status      string         `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"oneof=active inactive suspended"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Company) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
