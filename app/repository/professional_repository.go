package repository

import (
	"errors"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

type professionalRepository struct {
	db *gorm.DB
}

// NewProfessionalRepository creates a new professional repository instance
func NewProfessionalRepository(db *gorm.DB) ProfessionalRepository {
	return &professionalRepository{db: db}
}

func (r *professionalRepository) Create(p *models.Professional) error {
	if err := r.db.Create(p).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create professional", err)
	}
	return nil
}

func (r *professionalRepository) GetByID(companyID, id uint) (*models.Professional, error) {
	var p models.Professional
	err := r.db.Where("company_id = ?", companyID).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "professional %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load professional", err)
	}
	return &p, nil
}

func (r *professionalRepository) Update(p *models.Professional) error {
	if err := r.db.Save(p).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "update professional", err)
	}
	return nil
}

func (r *professionalRepository) List(companyID uint, offset, limit int) ([]models.Professional, int64, error) {
	q := r.db.Model(&models.Professional{}).Where("company_id = ?", companyID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count professionals", err)
	}

	var list []models.Professional
	err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list professionals", err)
	}
	return list, total, nil
}

func (r *professionalRepository) CountActiveByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Professional{}).
		Where("company_id = ? AND status = ?", companyID, models.ProfessionalStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "count professionals", err)
	}
	return count, nil
}
