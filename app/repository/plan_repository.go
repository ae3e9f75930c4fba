package repository

import (
	"errors"
	"time"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) CreatePlan(p *models.Plan) error {
	if err := r.db.Create(p).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "create plan", err)
	}
	return nil
}

func (r *planRepository) GetPlan(id uint) (*models.Plan, error) {
	var p models.Plan
	err := r.db.First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "plan %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "load plan", err)
	}
	return &p, nil
}

func (r *planRepository) ListPlans() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("status = ?", models.PlanStatusActive).Order("price ASC").Find(&plans).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "list plans", err)
	}
	return plans, nil
}

func (r *planRepository) GetActiveSubscription(companyID uint, at time.Time) (*models.PlanSubscription, *models.Plan, error) {
	var sub models.PlanSubscription
	err := r.db.
		Where("company_id = ? AND status = ? AND start_date <= ? AND end_date > ?",
			companyID, models.SubscriptionStatusActive, at, at).
		Order("start_date DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.Newf(apperrors.KindNotFound, "no active subscription for company %d", companyID)
		}
		return nil, nil, apperrors.Wrap(apperrors.KindPersistence, "load subscription", err)
	}

	plan, err := r.GetPlan(sub.PlanID)
	if err != nil {
		return nil, nil, err
	}
	return &sub, plan, nil
}

// ActivateSubscription expires any previously active subscription of
// the company before inserting the new one, keeping the
// one-active-subscription-per-company invariant inside a single
// transaction.
func (r *planRepository) ActivateSubscription(sub *models.PlanSubscription) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PlanSubscription{}).
			Where("company_id = ? AND status = ?", sub.CompanyID, models.SubscriptionStatusActive).
			Update("status", models.SubscriptionStatusExpired).Error; err != nil {
			return err
		}
		sub.Status = models.SubscriptionStatusActive
		return tx.Create(sub).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "activate subscription", err)
	}
	return nil
}

// ExpireDueSubscriptions settles every active subscription whose end
// date has passed: auto-renew rows roll forward to the next billing
// boundary, the rest flip to expired. Returns the number of rows
// touched.
func (r *planRepository) ExpireDueSubscriptions(now time.Time) (int64, error) {
	var settled int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var renewable []models.PlanSubscription
		if err := tx.Where("status = ? AND end_date <= ? AND auto_renew = ?",
			models.SubscriptionStatusActive, now, true).Find(&renewable).Error; err != nil {
			return err
		}
		for i := range renewable {
			sub := &renewable[i]
			var plan models.Plan
			if err := tx.First(&plan, sub.PlanID).Error; err != nil {
				return err
			}
			sub.Renew(&plan, now)
			if err := tx.Model(&models.PlanSubscription{}).
				Where("id = ?", sub.ID).
				Updates(map[string]interface{}{
					"start_date": sub.StartDate,
					"end_date":   sub.EndDate,
				}).Error; err != nil {
				return err
			}
		}
		settled = int64(len(renewable))

		res := tx.Model(&models.PlanSubscription{}).
			Where("status = ? AND end_date <= ? AND auto_renew = ?",
				models.SubscriptionStatusActive, now, false).
			Update("status", models.SubscriptionStatusExpired)
		if res.Error != nil {
			return res.Error
		}
		settled += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "settle subscriptions", err)
	}
	return settled, nil
}
