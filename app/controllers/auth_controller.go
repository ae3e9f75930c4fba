package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"github.com/maidsflow/control-api/internal/pkg/database"
)

type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CompanyID *uint  `json:"company_id"`
}

// HandleRegisterUser creates an account with a bcrypt-hashed password.
func HandleRegisterUser(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}
	if req.Role == "" {
		req.Role = models.RoleCompany
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password, req.Role, req.CompanyID)
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid user", err))
	}

	if err := database.GetDB().Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, apperrors.Newf(apperrors.KindConflict, "email %s is already registered", req.Email))
		}
		return respondError(c, apperrors.Wrap(apperrors.KindPersistence, "create user", err))
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and stamps the login instant.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}

	var user models.User
	db := database.GetDB()
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		return respondError(c, apperrors.Wrap(apperrors.KindPersistence, "load user", err))
	}

	if user.Status != models.UserStatusActive || !models.CheckPasswordHash(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}

	db.Model(&user).Update("last_login_at", time.Now())
	return c.JSON(user)
}
