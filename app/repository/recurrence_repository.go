package repository

import (
	"errors"
	"time"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// recurrenceRepository implements the RecurrenceRepository interface
type recurrenceRepository struct {
	db *gorm.DB
}

// NewRecurrenceRepository creates a new recurrence repository instance
func NewRecurrenceRepository(db *gorm.DB) RecurrenceRepository {
	return &recurrenceRepository{db: db}
}

func (r *recurrenceRepository) Create(rec *models.Recurrence) error {
	if err := r.db.Create(rec).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create recurrence", err)
	}
	return nil
}

func (r *recurrenceRepository) GetByID(companyID, id uint) (*models.Recurrence, error) {
	var rec models.Recurrence
	err := r.db.Where("company_id = ?", companyID).First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "recurrence %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load recurrence", err)
	}
	return &rec, nil
}

func (r *recurrenceRepository) Update(rec *models.Recurrence) error {
	if err := r.db.Save(rec).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "update recurrence", err)
	}
	return nil
}

func (r *recurrenceRepository) List(companyID uint, status string, offset, limit int) ([]models.Recurrence, int64, error) {
	q := r.db.Model(&models.Recurrence{}).Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count recurrences", err)
	}

	var recs []models.Recurrence
	err := q.Order("next_execution ASC NULLS LAST").Offset(offset).Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list recurrences", err)
	}
	return recs, total, nil
}

func (r *recurrenceRepository) ListDue(now time.Time, limit int) ([]models.Recurrence, error) {
	var recs []models.Recurrence
	err := r.db.
		Where("status = ? AND next_execution IS NOT NULL AND next_execution <= ?", models.RecurrenceStatusActive, now).
		Order("next_execution ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "list due recurrences", err)
	}
	return recs, nil
}

// ClaimNextExecution is the optimistic claim: the UPDATE only applies
// when next_execution still holds the value the worker read, so two
// concurrent workers can never both advance the same occurrence.
func (r *recurrenceRepository) ClaimNextExecution(id uint, expected, next time.Time) (bool, error) {
	tx := r.db.Model(&models.Recurrence{}).
		Where("id = ? AND status = ? AND next_execution = ?", id, models.RecurrenceStatusActive, expected).
		Update("next_execution", next)
	if tx.Error != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, "claim recurrence", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *recurrenceRepository) RollbackClaim(id uint, from, to time.Time) (bool, error) {
	tx := r.db.Model(&models.Recurrence{}).
		Where("id = ? AND next_execution = ?", id, from).
		Update("next_execution", to)
	if tx.Error != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, "roll back recurrence claim", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *recurrenceRepository) MarkExhausted(id uint, expected time.Time) (bool, error) {
	tx := r.db.Model(&models.Recurrence{}).
		Where("id = ? AND status = ? AND next_execution = ?", id, models.RecurrenceStatusActive, expected).
		Updates(map[string]interface{}{
			"status":         models.RecurrenceStatusExhausted,
			"next_execution": nil,
		})
	if tx.Error != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, "mark recurrence exhausted", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *recurrenceRepository) AppendNote(id uint, note string) error {
	err := r.db.Model(&models.Recurrence{}).
		Where("id = ?", id).
		Update("notes", gorm.Expr("CASE WHEN notes IS NULL OR notes = '' THEN ? ELSE notes || E'\\n' || ? END", note, note)).Error
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "append recurrence note", err)
	}
	return nil
}

func (r *recurrenceRepository) SetStatusIf(id uint, from []string, to string) (bool, error) {
	tx := r.db.Model(&models.Recurrence{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, "update recurrence status", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
