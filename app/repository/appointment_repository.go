package repository

import (
	"errors"
	"time"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// appointmentRepository implements the AppointmentRepository interface
type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository instance
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(appt *models.Appointment) error {
	if err := r.db.Create(appt).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create appointment", err)
	}
	return nil
}

// CreateFromRecurrence persists the materialized appointment and stamps
// the recurrence's last_execution atomically, so a crash between the
// two writes cannot leave a half-materialized occurrence.
func (r *appointmentRepository) CreateFromRecurrence(appt *models.Appointment, recurrenceID uint, occurrence time.Time) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appt).Error; err != nil {
			return err
		}
		return tx.Model(&models.Recurrence{}).
			Where("id = ?", recurrenceID).
			Update("last_execution", occurrence).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "materialize appointment", err)
	}
	return nil
}

func (r *appointmentRepository) GetByID(companyID, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.Where("company_id = ?", companyID).First(&appt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "appointment %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load appointment", err)
	}
	return &appt, nil
}

func (r *appointmentRepository) List(companyID uint, f AppointmentFilter) ([]models.Appointment, int64, error) {
	q := r.db.Model(&models.Appointment{}).Where("company_id = ?", companyID)
	if f.From != nil {
		q = q.Where("start >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start < ?", *f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TeamID != nil {
		q = q.Where("team_id = ?", *f.TeamID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count appointments", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	var appts []models.Appointment
	err := q.Order("start ASC").Offset(f.Offset).Limit(limit).Find(&appts).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list appointments", err)
	}
	return appts, total, nil
}

// FindOverlapping applies the half-open interval rule: [s1,e1) and
// [s2,e2) collide iff s1 < e2 and s2 < e1. Cancelled appointments do
// not block the slot.
func (r *appointmentRepository) FindOverlapping(companyID uint, teamID, professionalID *uint, start, end time.Time) ([]uint, error) {
	q := r.db.Model(&models.Appointment{}).
		Where("company_id = ? AND status <> ?", companyID, models.AppointmentStatusCancelled).
		Where("start < ? AND ? < \"end\"", end, start)

	switch {
	case teamID != nil && professionalID != nil:
		q = q.Where("team_id = ? OR professional_id = ?", *teamID, *professionalID)
	case teamID != nil:
		q = q.Where("team_id = ?", *teamID)
	case professionalID != nil:
		q = q.Where("professional_id = ?", *professionalID)
	default:
		return nil, nil
	}

	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "query overlapping appointments", err)
	}
	return ids, nil
}

func (r *appointmentRepository) UpdateStatusIf(id uint, from []string, to string) (bool, error) {
	tx := r.db.Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, "update appointment status", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *appointmentRepository) CountActiveByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Appointment{}).
		Where("company_id = ? AND status <> ?", companyID, models.AppointmentStatusCancelled).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "count appointments", err)
	}
	return count, nil
}
