package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	RefundStatusNone      = "none"
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
	RefundStatusDenied    = "denied"
)

// Cancellation records a single appointment cancellation. A row is
// created exactly once per cancelled appointment and is immutable
// afterwards except for refund status transitions driven by the
// payment collaborator.
type Cancellation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AppointmentID   uint      `gorm:"not null;uniqueIndex" json:"appointment_id" validate:"required"`
	CompanyID       uint      `gorm:"not null;index" json:"company_id" validate:"required"`
	CustomerID      uint      `gorm:"index" json:"customer_id"`
	Reason          string    `gorm:"type:text;not null" json:"reason" validate:"required"`
	CancelledByID   uint      `gorm:"not null" json:"cancelled_by_id" validate:"required"`
	CancelledByRole string    `gorm:"type:varchar(30);not null" json:"cancelled_by_role" validate:"required"`
	CancelledAt     time.Time `gorm:"not null" json:"cancelled_at"`
	RefundStatus    string    `gorm:"type:varchar(20);default:'pending'" json:"refund_status" validate:"oneof=none pending processed denied"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Cancellation) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
