package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// PlanSubscription binds a company to a plan for a period. The quota
// enforcer only reads the single subscription with status=active; the
// activation path expires any previous active row in the same
// transaction so that invariant holds.
type PlanSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlanID    uint      `gorm:"not null;index" json:"plan_id" validate:"required"`
	CompanyID uint      `gorm:"not null;index:idx_plan_subscriptions_company_status,priority:1" json:"company_id" validate:"required"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"type:varchar(20);default:'active';index:idx_plan_subscriptions_company_status,priority:2" json:"status" validate:"oneof=active expired cancelled"`
	AutoRenew bool      `gorm:"default:false" json:"auto_renew"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *PlanSubscription) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// Renew rolls the subscription window forward by whole plan periods
// until the end date lies after now, so a sweep that fell behind still
// lands on the correct billing boundary.
func (s *PlanSubscription) Renew(plan *Plan, now time.Time) {
	if plan.DurationDays <= 0 {
		return
	}
	for !s.EndDate.After(now) {
		s.StartDate = s.EndDate
		s.EndDate = s.EndDate.AddDate(0, 0, plan.DurationDays)
	}
}

// IsCurrent reports whether the subscription entitles the company at
// the given instant.
func (s *PlanSubscription) IsCurrent(at time.Time) bool {
	return s.Status == SubscriptionStatusActive &&
		!at.Before(s.StartDate) && at.Before(s.EndDate)
}
