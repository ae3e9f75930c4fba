package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	LeaderStatusActive   = "active"
	LeaderStatusInactive = "inactive"
)

type Leader struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id" validate:"required"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email     string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Phone     string         `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Region    string         `gorm:"type:varchar(100)" json:"region"`
	Status    string         `gorm:"type:varchar(20);default:'active'" json:"status" validate:"oneof=active inactive"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *Leader) Validate() error {
	v := validator.New()

	return v.Struct(l)
}
