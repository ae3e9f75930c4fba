package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
)

// Directory routes cover the plan-limited resources a company manages:
// customers, teams and professionals. Each create path runs the quota
// check and the insert under the company lock.

func HandleCreateCompany(c *fiber.Ctx) error {
	var company models.Company
	if err := c.BodyParser(&company); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}
	if company.Status == "" {
		company.Status = models.CompanyStatusActive
	}
	if err := company.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid company", err))
	}

	if err := repository.GetGlobalFactory().GetCompanyRepository().Create(&company); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

func HandleListCompanies(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	list, total, err := repository.GetGlobalFactory().GetCompanyRepository().List(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, total, offset, limit)
}

func HandleCreateCustomer(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}

	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}
	customer.CompanyID = companyID
	if customer.Status == "" {
		customer.Status = models.CustomerStatusActive
	}
	if err := customer.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid customer", err))
	}

	unlock := quotaEnforcer.LockCompany(companyID)
	defer unlock()

	if err := quotaEnforcer.CheckQuota(companyID, models.ResourceCustomers); err != nil {
		return respondError(c, err)
	}
	if err := repository.GetGlobalFactory().GetCustomerRepository().Create(&customer); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func HandleListCustomers(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	offset, limit := parsePagination(c)
	list, total, err := repository.GetGlobalFactory().GetCustomerRepository().List(companyID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, total, offset, limit)
}

// HandleDeactivateCustomer frees the customer's quota slot without
// deleting the row, so a capped company can swap customers.
func HandleDeactivateCustomer(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetCustomerRepository()
	if _, err := repo.GetByID(companyID, id); err != nil {
		return respondError(c, err)
	}
	if err := repo.SetStatus(companyID, id, models.CustomerStatusInactive); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func HandleCreateTeam(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}

	var team models.Team
	if err := c.BodyParser(&team); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}
	team.CompanyID = companyID
	if team.Status == "" {
		team.Status = models.TeamStatusActive
	}
	if err := team.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid team", err))
	}

	unlock := quotaEnforcer.LockCompany(companyID)
	defer unlock()

	if err := quotaEnforcer.CheckQuota(companyID, models.ResourceTeams); err != nil {
		return respondError(c, err)
	}
	if err := repository.GetGlobalFactory().GetTeamRepository().Create(&team); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func HandleListTeams(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	offset, limit := parsePagination(c)
	list, total, err := repository.GetGlobalFactory().GetTeamRepository().List(companyID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, total, offset, limit)
}

func HandleCreateProfessional(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}

	var prof models.Professional
	if err := c.BodyParser(&prof); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err))
	}
	prof.CompanyID = companyID
	if prof.Status == "" {
		prof.Status = models.ProfessionalStatusActive
	}
	if err := prof.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindValidation, "invalid professional", err))
	}

	unlock := quotaEnforcer.LockCompany(companyID)
	defer unlock()

	if err := quotaEnforcer.CheckQuota(companyID, models.ResourceProfessionals); err != nil {
		return respondError(c, err)
	}
	if err := repository.GetGlobalFactory().GetProfessionalRepository().Create(&prof); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(prof)
}

func HandleListProfessionals(c *fiber.Ctx) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return respondError(c, err)
	}
	offset, limit := parsePagination(c)
	list, total, err := repository.GetGlobalFactory().GetProfessionalRepository().List(companyID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, total, offset, limit)
}
