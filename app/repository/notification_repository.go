package repository

import (
	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *models.Notification) error {
	if err := r.db.Create(n).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create notification", err)
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(recipientID uint, offset, limit int) ([]models.Notification, int64, error) {
	q := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count notifications", err)
	}

	var list []models.Notification
	err := q.Order("sent_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list notifications", err)
	}
	return list, total, nil
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(p *models.Payment) error {
	if err := r.db.Create(p).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create payment", err)
	}
	return nil
}

func (r *paymentRepository) ListByCompany(companyID uint, offset, limit int) ([]models.Payment, int64, error) {
	q := r.db.Model(&models.Payment{}).Where("company_id = ?", companyID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count payments", err)
	}

	var list []models.Payment
	err := q.Order("due_date DESC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list payments", err)
	}
	return list, total, nil
}
