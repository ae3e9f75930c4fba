package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"github.com/maidsflow/control-api/internal/pkg/scheduling"
)

type createRecurrenceRequest struct {
	CustomerID      *uint      `json:"customer_id"`
	TeamID          *uint      `json:"team_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Address         string     `json:"address"`
	Frequency       string     `json:"frequency"`
	Day             int        `json:"day"`
	TimeOfDay       int        `json:"time_of_day"`
	DurationMinutes int        `json:"duration_minutes"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
}

// HandleCreateRecurrence registers a recurrence rule and seeds its
// first execution instant from the cadence engine.
func HandleCreateRecurrence(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req createRecurrenceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}

	rec := &models.Recurrence{
		CompanyID:       companyID,
		CustomerID:      req.CustomerID,
		TeamID:          req.TeamID,
		Title:           req.Title,
		Description:     req.Description,
		Address:         req.Address,
		Frequency:       models.NormalizeFrequency(req.Frequency),
		Day:             req.Day,
		TimeOfDay:       req.TimeOfDay,
		DurationMinutes: req.DurationMinutes,
		Status:          models.RecurrenceStatusActive,
		StartDate:       req.StartDate.UTC(),
		EndDate:         req.EndDate,
	}
	if err := rec.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid recurrence", err))
	}

	next, ok := scheduling.ComputeNextExecution(scheduling.RuleFromRecurrence(rec), time.Now().UTC())
	if !ok {
		return respondError(c, apperrors.New(apperrors.KindValidation,
			"rule produces no occurrence before its end date"))
	}
	rec.NextExecution = &next

	if err := repository.GetGlobalFactory().GetRecurrenceRepository().Create(rec); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// HandleListRecurrences lists a company's recurrences, optionally
// filtered by status.
func HandleListRecurrences(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	offset, limit := parsePagination(c)

	list, total, err := repository.GetGlobalFactory().GetRecurrenceRepository().
		List(companyID, c.Query("status"), offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, total, offset, limit)
}

// HandleGetRecurrence returns one recurrence within the company scope.
func HandleGetRecurrence(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	rec, err := repository.GetGlobalFactory().GetRecurrenceRepository().GetByID(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// HandlePauseRecurrence suspends materialization for a recurrence.
func HandlePauseRecurrence(c *fiber.Ctx) error {
	return transitionRecurrence(c, models.RecurrenceStatusPaused)
}

// HandleResumeRecurrence reactivates a paused recurrence. Occurrences
// that fell inside the paused window are not backfilled: the next
// execution is recomputed strictly after the resume instant.
func HandleResumeRecurrence(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetRecurrenceRepository()
	rec, err := repo.GetByID(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	if rec.Status != models.RecurrenceStatusPaused {
		return respondError(c, apperrors.Newf(apperrors.KindInvalidState,
			"recurrence %d is %s, only paused recurrences can resume", rec.ID, rec.Status))
	}

	next, ok := scheduling.ComputeNextExecution(scheduling.RuleFromRecurrence(rec), time.Now().UTC())
	if !ok {
		// Past its end date while paused; nothing left to schedule.
		if _, err := repo.SetStatusIf(rec.ID, []string{models.RecurrenceStatusPaused}, models.RecurrenceStatusExhausted); err != nil {
			return respondError(c, err)
		}
		rec.Status = models.RecurrenceStatusExhausted
		rec.NextExecution = nil
		return c.JSON(rec)
	}

	rec.Status = models.RecurrenceStatusActive
	rec.NextExecution = &next
	if err := repo.Update(rec); err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// HandleCancelRecurrence permanently stops a recurrence. Appointments
// already materialized from it are untouched.
func HandleCancelRecurrence(c *fiber.Ctx) error {
	return transitionRecurrence(c, models.RecurrenceStatusCancelled)
}

func transitionRecurrence(c *fiber.Ctx, to string) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetRecurrenceRepository()
	rec, err := repo.GetByID(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	if !rec.CanTransitionTo(to) {
		return respondError(c, apperrors.Newf(apperrors.KindInvalidState,
			"recurrence %d cannot move from %s to %s", rec.ID, rec.Status, to))
	}

	var from []string
	switch to {
	case models.RecurrenceStatusPaused:
		from = []string{models.RecurrenceStatusActive}
	case models.RecurrenceStatusCancelled:
		from = []string{models.RecurrenceStatusActive, models.RecurrenceStatusPaused}
	default:
		return respondError(c, apperrors.Newf(apperrors.KindValidation, "unsupported transition target %q", to))
	}

	applied, err := repo.SetStatusIf(rec.ID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	if !applied {
		return respondError(c, apperrors.Newf(apperrors.KindInvalidState,
			"recurrence %d changed state concurrently", rec.ID))
	}
	rec.Status = to
	return c.JSON(rec)
}
