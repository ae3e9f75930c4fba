package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"github.com/maidsflow/control-api/internal/pkg/cancellation"
	"github.com/maidsflow/control-api/internal/pkg/quota"
	"github.com/maidsflow/control-api/internal/pkg/scheduling"
)

var (
	quotaEnforcer     *quota.Enforcer
	conflictDetector  *scheduling.ConflictDetector
	cancelCoordinator *cancellation.Coordinator
	schedulerRunner   *scheduling.Runner
)

// InitializeSchedulingControllers hands the controllers their core
// collaborators. Must run before the routes are installed.
func InitializeSchedulingControllers(
	enforcer *quota.Enforcer,
	detector *scheduling.ConflictDetector,
	coordinator *cancellation.Coordinator,
	runner *scheduling.Runner,
) {
	quotaEnforcer = enforcer
	conflictDetector = detector
	cancelCoordinator = coordinator
	schedulerRunner = runner
}

type createAppointmentRequest struct {
	Title          string    `json:"title"`
	Address        string    `json:"address"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	CustomerID     *uint     `json:"customer_id"`
	TeamID         *uint     `json:"team_id"`
	ProfessionalID *uint     `json:"professional_id"`
	Notes          string    `json:"notes"`
}

// HandleCreateAppointment creates a one-off appointment. The conflict
// check and the quota check-then-create run under the company lock so
// concurrent requests cannot both slip past the limit.
func HandleCreateAppointment(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req createAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}

	appt := &models.Appointment{
		Title:          req.Title,
		Address:        req.Address,
		Start:          req.Start.UTC(),
		End:            req.End.UTC(),
		CompanyID:      companyID,
		CustomerID:     req.CustomerID,
		TeamID:         req.TeamID,
		ProfessionalID: req.ProfessionalID,
		Status:         models.AppointmentStatusScheduled,
		Type:           models.AppointmentTypeOneTime,
		Notes:          req.Notes,
	}
	if err := appt.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid appointment", err))
	}

	unlock := quotaEnforcer.LockCompany(companyID)
	defer unlock()

	conflicting, err := conflictDetector.Check(companyID, appt.TeamID, appt.ProfessionalID, appt.Start, appt.End)
	if err != nil {
		return respondError(c, err)
	}
	if len(conflicting) > 0 {
		return respondError(c, apperrors.Newf(apperrors.KindConflict,
			"window overlaps appointment %d for the same assignee", conflicting[0]))
	}

	if err := quotaEnforcer.CheckQuota(companyID, models.ResourceAppointments); err != nil {
		return respondError(c, err)
	}
	if err := repository.GetGlobalFactory().GetAppointmentRepository().Create(appt); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appt)
}

// HandleListAppointments lists a company's appointments with optional
// date-range, status and team filters.
func HandleListAppointments(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	offset, limit := parsePagination(c)

	filter := repository.AppointmentFilter{
		Status: c.Query("status"),
		Offset: offset,
		Limit:  limit,
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return respondError(c, apperrors.Newf(apperrors.KindValidation, "invalid from timestamp %q", raw))
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return respondError(c, apperrors.Newf(apperrors.KindValidation, "invalid to timestamp %q", raw))
		}
		filter.To = &t
	}
	if teamID := c.QueryInt("team_id", 0); teamID > 0 {
		id := uint(teamID)
		filter.TeamID = &id
	}

	list, total, err := repository.GetGlobalFactory().GetAppointmentRepository().List(companyID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, total, offset, limit)
}

// HandleGetAppointment returns one appointment within the company scope.
func HandleGetAppointment(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	appt, err := repository.GetGlobalFactory().GetAppointmentRepository().GetByID(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(appt)
}

// HandleConfirmAppointment moves scheduled -> confirmed.
func HandleConfirmAppointment(c *fiber.Ctx) error {
	return transitionAppointment(c, models.AppointmentStatusConfirmed)
}

// HandleStartAppointment moves confirmed -> in_progress.
func HandleStartAppointment(c *fiber.Ctx) error {
	return transitionAppointment(c, models.AppointmentStatusInProgress)
}

// HandleCompleteAppointment moves in_progress -> completed.
func HandleCompleteAppointment(c *fiber.Ctx) error {
	return transitionAppointment(c, models.AppointmentStatusCompleted)
}

func transitionAppointment(c *fiber.Ctx, to string) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetAppointmentRepository()
	appt, err := repo.GetByID(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	if !appt.CanTransitionTo(to) {
		return respondError(c, apperrors.Newf(apperrors.KindInvalidState,
			"appointment %d cannot move from %s to %s", appt.ID, appt.Status, to))
	}

	applied, err := repo.UpdateStatusIf(appt.ID, []string{appt.Status}, to)
	if err != nil {
		return respondError(c, err)
	}
	if !applied {
		return respondError(c, apperrors.Newf(apperrors.KindInvalidState,
			"appointment %d changed state concurrently", appt.ID))
	}
	appt.Status = to
	return c.JSON(appt)
}

type cancelAppointmentRequest struct {
	Reason        string `json:"reason"`
	CancelledByID uint   `json:"cancelled_by_id"`
	CancelledBy   string `json:"cancelled_by"`
}

// HandleCancelAppointment cancels an appointment through the
// cancellation coordinator: the status flip and the cancellation row
// commit atomically, then notification and refund jobs go to the queue.
func HandleCancelAppointment(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req cancelAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}

	record, err := cancelCoordinator.Cancel(c.Context(), cancellation.Request{
		CompanyID:     companyID,
		AppointmentID: id,
		Reason:        req.Reason,
		CancelledByID: req.CancelledByID,
		CancelledBy:   req.CancelledBy,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// HandleListCancellations lists a company's cancellation records.
func HandleListCancellations(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	offset, limit := parsePagination(c)

	list, total, err := repository.GetGlobalFactory().GetCancellationRepository().
		ListByCompany(companyID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, total, offset, limit)
}

// HandleDenyRefund settles a pending refund as denied.
func HandleDenyRefund(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	record, err := cancelCoordinator.DenyRefund(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(record)
}
