package repository

import (
	"errors"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository instance
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(t *models.Team) error {
	if err := r.db.Create(t).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create team", err)
	}
	return nil
}

func (r *teamRepository) GetByID(companyID, id uint) (*models.Team, error) {
	var t models.Team
	err := r.db.Where("company_id = ?", companyID).First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "team %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load team", err)
	}
	return &t, nil
}

func (r *teamRepository) Update(t *models.Team) error {
	if err := r.db.Save(t).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "update team", err)
	}
	return nil
}

func (r *teamRepository) List(companyID uint, offset, limit int) ([]models.Team, int64, error) {
	q := r.db.Model(&models.Team{}).Where("company_id = ?", companyID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count teams", err)
	}

	var list []models.Team
	err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list teams", err)
	}
	return list, total, nil
}

func (r *teamRepository) CountActiveByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Team{}).
		Where("company_id = ? AND status = ?", companyID, models.TeamStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "count teams", err)
	}
	return count, nil
}
