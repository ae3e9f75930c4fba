package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
)

// HandleListPlans returns all subscription tiers.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().ListPlans()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": plans})
}

// HandleCreatePlan registers a new subscription tier.
func HandleCreatePlan(c *fiber.Ctx) error {
	var plan models.Plan
	if err := c.BodyParser(&plan); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}
	if plan.Status == "" {
		plan.Status = models.PlanStatusActive
	}
	if plan.DurationDays == 0 {
		plan.DurationDays = 30
	}
	if err := plan.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid plan", err))
	}

	if err := repository.GetGlobalFactory().GetPlanRepository().CreatePlan(&plan); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

type activateSubscriptionRequest struct {
	PlanID    uint `json:"plan_id"`
	AutoRenew bool `json:"auto_renew"`
}

// HandleActivateSubscription puts a company on a plan. Any previously
// active subscription expires in the same transaction, so the quota
// enforcer always sees exactly one active subscription per company.
func HandleActivateSubscription(c *fiber.Ctx) error {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req activateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}
	if req.PlanID == 0 {
		return respondError(c, apperrors.New(apperrors.KindValidation, "plan_id is required"))
	}

	repos := repository.GetGlobalFactory()
	if _, err := repos.GetCompanyRepository().GetByID(companyID); err != nil {
		return respondError(c, err)
	}
	plan, err := repos.GetPlanRepository().GetPlan(req.PlanID)
	if err != nil {
		return respondError(c, err)
	}
	if plan.Status != models.PlanStatusActive {
		return respondError(c, apperrors.Newf(apperrors.KindInvalidState, "plan %d is inactive", plan.ID))
	}

	now := time.Now().UTC()
	sub := &models.PlanSubscription{
		PlanID:    plan.ID,
		CompanyID: companyID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		Status:    models.SubscriptionStatusActive,
		AutoRenew: req.AutoRenew,
	}
	if err := repos.GetPlanRepository().ActivateSubscription(sub); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}
