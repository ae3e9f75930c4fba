package repository

import (
	"errors"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository instance
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(c *models.Company) error {
	if err := r.db.Create(c).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create company", err)
	}
	return nil
}

func (r *companyRepository) GetByID(id uint) (*models.Company, error) {
	var c models.Company
	err := r.db.First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "company %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load company", err)
	}
	return &c, nil
}

func (r *companyRepository) Update(c *models.Company) error {
	if err := r.db.Save(c).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "update company", err)
	}
	return nil
}

func (r *companyRepository) List(offset, limit int) ([]models.Company, int64, error) {
	var total int64
	if err := r.db.Model(&models.Company{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count companies", err)
	}

	var list []models.Company
	err := r.db.Order("name ASC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list companies", err)
	}
	return list, total, nil
}
