package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypeCancellation = "cancellation"
	NotificationTypeRefund       = "refund"
	NotificationTypeSystem       = "system"

	NotificationStatusSent   = "sent"
	NotificationStatusRead   = "read"
	NotificationStatusFailed = "failed"
)

type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(200);not null" json:"title"`
	Message       string     `gorm:"type:text;not null" json:"message"`
	Type          string     `gorm:"type:varchar(30)" json:"type" validate:"oneof=cancellation refund system"`
	RecipientID   uint       `gorm:"index" json:"recipient_id"`
	RecipientRole string     `gorm:"type:varchar(30)" json:"recipient_role"`
	CompanyID     *uint      `gorm:"index" json:"company_id,omitempty"`
	Status        string     `gorm:"type:varchar(20);default:'sent'" json:"status"`
	SentAt        time.Time  `gorm:"not null" json:"sent_at"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// MarkAsRead records the read instant for a delivered notification.
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	now := time.Now()
	n.Status = NotificationStatusRead
	n.ReadAt = &now
	return db.Model(n).Updates(map[string]interface{}{"status": n.Status, "read_at": n.ReadAt}).Error
}
