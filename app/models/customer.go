package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

type Customer struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email         string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Phone         string         `gorm:"type:varchar(30)" json:"phone"`
	Address       string         `gorm:"type:text" json:"address"`
	City          string         `gorm:"type:varchar(100)" json:"city"`
	State         string         `gorm:"type:varchar(50)" json:"state"`
	Observations  string         `gorm:"type:text" json:"observations,omitempty"`
	Ssn           string         `gorm:"type:varchar(11)" json:"ssn,omitempty" validate:"max=11"`
	Ticket        *float64       `gorm:"type:numeric(18,2)" json:"ticket,omitempty"`
	Frequency     string         `gorm:"type:varchar(50)" json:"frequency,omitempty"`
	PaymentMethod string         `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	Status        string         `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"oneof=active inactive"`
	CompanyID     uint           `gorm:"not null;index" json:"company_id" validate:"required"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
