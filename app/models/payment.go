package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusOverdue  = "overdue"
	PaymentStatusRefunded = "refunded"
)

type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CompanyID   uint       `gorm:"not null;index" json:"company_id" validate:"required"`
	Amount      float64    `gorm:"type:numeric(18,2);not null" json:"amount"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	Status      string     `gorm:"type:varchar(20);default:'pending';index" json:"status" validate:"oneof=pending paid overdue refunded"`
	Method      string     `gorm:"type:varchar(50)" json:"method,omitempty"`
	Reference   string     `gorm:"type:varchar(100);not null" json:"reference" validate:"required"`
	PlanID      uint       `gorm:"index" json:"plan_id"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payment) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
