package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/maidsflow/control-api/internal/pkg/apperrors"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// requireCompanyID resolves the tenant scope of a request from the
// X-Company-ID header. Every company-scoped route goes through it.
func requireCompanyID(c *fiber.Ctx) (uint, error) {
	raw := c.Get("X-Company-ID")
	if raw == "" {
		return 0, apperrors.New(apperrors.KindValidation, "missing X-Company-ID header")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Newf(apperrors.KindValidation, "invalid X-Company-ID header %q", raw)
	}
	return uint(id), nil
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Newf(apperrors.KindValidation, "invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// parsePagination reads offset/limit query parameters with sane caps.
func parsePagination(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit = c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}

// respondError maps an error to the API's JSON error shape. Unknown
// and persistence errors collapse to a 500 without leaking internals.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	status := fiber.StatusInternalServerError
	code := "internal_server_error"
	message := "Something went wrong"

	switch kind {
	case apperrors.KindValidation:
		status, code, message = fiber.StatusBadRequest, "validation_failed", err.Error()
	case apperrors.KindNotFound:
		status, code, message = fiber.StatusNotFound, "not_found", err.Error()
	case apperrors.KindConflict:
		status, code, message = fiber.StatusConflict, "conflict", err.Error()
	case apperrors.KindQuota:
		status, code, message = fiber.StatusUnprocessableEntity, "quota_exceeded", err.Error()
	case apperrors.KindInvalidState:
		status, code, message = fiber.StatusConflict, "invalid_state_transition", err.Error()
	default:
		log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{"error": code, "message": message}
	if q, ok := apperrors.AsQuotaExceeded(err); ok {
		body["resource"] = q.Resource
		body["limit"] = q.Limit
		body["current"] = q.Current
	}
	return c.Status(status).JSON(body)
}

// listResponse is the shared envelope for paginated listings.
func listResponse(c *fiber.Ctx, items interface{}, total int64, offset, limit int) error {
	return c.JSON(fiber.Map{
		"data":   items,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}
