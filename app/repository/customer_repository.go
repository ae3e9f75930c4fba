package repository

import (
	"errors"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(c *models.Customer) error {
	if err := r.db.Create(c).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create customer", err)
	}
	return nil
}

func (r *customerRepository) GetByID(companyID, id uint) (*models.Customer, error) {
	var c models.Customer
	err := r.db.Where("company_id = ?", companyID).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "customer %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load customer", err)
	}
	return &c, nil
}

func (r *customerRepository) Update(c *models.Customer) error {
	if err := r.db.Save(c).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "update customer", err)
	}
	return nil
}

func (r *customerRepository) List(companyID uint, offset, limit int) ([]models.Customer, int64, error) {
	q := r.db.Model(&models.Customer{}).Where("company_id = ?", companyID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "count customers", err)
	}

	var list []models.Customer
	err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistence, "list customers", err)
	}
	return list, total, nil
}

func (r *customerRepository) CountActiveByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).
		Where("company_id = ? AND status = ?", companyID, models.CustomerStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "count customers", err)
	}
	return count, nil
}

func (r *customerRepository) SetStatus(companyID, id uint, status string) error {
	tx := r.db.Model(&models.Customer{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("status", status)
	if tx.Error != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "update customer status", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "customer %d not found", id)
	}
	return nil
}
