package repository

import (
	"errors"
	"time"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// cancellationRepository implements the CancellationRepository interface
type cancellationRepository struct {
	db *gorm.DB
}

// NewCancellationRepository creates a new cancellation repository instance
func NewCancellationRepository(db *gorm.DB) CancellationRepository {
	return &cancellationRepository{db: db}
}

// CreateWithStatusChange flips the appointment to cancelled and inserts
// the cancellation row in one transaction. The status flip is a
// compare-and-swap against the cancellable status set, so a concurrent
// completion or second cancellation makes this a clean no-op.
func (r *cancellationRepository) CreateWithStatusChange(c *models.Cancellation) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND company_id = ? AND status IN ?", c.AppointmentID, c.CompanyID, models.CancellableStatuses()).
			Update("status", models.AppointmentStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Create(c).Error
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, "create cancellation", err)
	}
	return applied, nil
}

func (r *cancellationRepository) GetByID(id uint) (*models.Cancellation, error) {
	var c models.Cancellation
	err := r.db.First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "cancellation %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load cancellation", err)
	}
	return &c, nil
}

func (r *cancellationRepository) GetByAppointmentID(appointmentID uint) (*models.Cancellation, error) {
	var c models.Cancellation
	err := r.db.Where("appointment_id = ?", appointmentID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "no cancellation for appointment %d", appointmentID)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load cancellation", err)
	}
	return &c, nil
}

func (r *cancellationRepository) ListByCompany(companyID uint, offset, limit int) ([]models.Cancellation, int64, error) {
	q := r.db.Model(&models.Cancellation{}).Where("company_id = ?", companyID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count cancellations", err)
	}

	var list []models.Cancellation
	err := q.Order("cancelled_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list cancellations", err)
	}
	return list, total, nil
}

func (r *cancellationRepository) ListStalePendingRefunds(olderThan time.Time, limit int) ([]models.Cancellation, error) {
	var list []models.Cancellation
	err := r.db.Where("refund_status = ? AND cancelled_at < ?", models.RefundStatusPending, olderThan).
		Order("cancelled_at ASC").Limit(limit).Find(&list).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "list stale pending refunds", err)
	}
	return list, nil
}

func (r *cancellationRepository) UpdateRefundStatusIf(id uint, from, to string) (bool, error) {
	tx := r.db.Model(&models.Cancellation{}).
		Where("id = ? AND refund_status = ?", id, from).
		Update("refund_status", to)
	if tx.Error != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, "update refund status", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
