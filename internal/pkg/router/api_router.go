package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/maidsflow/control-api/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "maidsflow control api",
		})
	})

	v1 := api.Group("/v1")

	v1.Post("/auth/register", controllers.HandleRegisterUser)
	v1.Post("/auth/login", controllers.HandleLogin)

	v1.Get("/plans", controllers.HandleListPlans)
	v1.Post("/plans", controllers.HandleCreatePlan)

	v1.Get("/companies", controllers.HandleListCompanies)
	v1.Post("/companies", controllers.HandleCreateCompany)
	v1.Post("/companies/:id/subscription", controllers.HandleActivateSubscription)

	v1.Get("/customers", controllers.HandleListCustomers)
	v1.Post("/customers", controllers.HandleCreateCustomer)
	v1.Post("/customers/:id/deactivate", controllers.HandleDeactivateCustomer)

	v1.Get("/teams", controllers.HandleListTeams)
	v1.Post("/teams", controllers.HandleCreateTeam)

	v1.Get("/professionals", controllers.HandleListProfessionals)
	v1.Post("/professionals", controllers.HandleCreateProfessional)

	v1.Get("/recurrences", controllers.HandleListRecurrences)
	v1.Post("/recurrences", controllers.HandleCreateRecurrence)
	v1.Get("/recurrences/:id", controllers.HandleGetRecurrence)
	v1.Post("/recurrences/:id/pause", controllers.HandlePauseRecurrence)
	v1.Post("/recurrences/:id/resume", controllers.HandleResumeRecurrence)
	v1.Post("/recurrences/:id/cancel", controllers.HandleCancelRecurrence)

	v1.Get("/appointments", controllers.HandleListAppointments)
	v1.Post("/appointments", controllers.HandleCreateAppointment)
	v1.Get("/appointments/:id", controllers.HandleGetAppointment)
	v1.Post("/appointments/:id/confirm", controllers.HandleConfirmAppointment)
	v1.Post("/appointments/:id/start", controllers.HandleStartAppointment)
	v1.Post("/appointments/:id/complete", controllers.HandleCompleteAppointment)
	v1.Post("/appointments/:id/cancel", controllers.HandleCancelAppointment)

	v1.Get("/cancellations", controllers.HandleListCancellations)
	v1.Post("/cancellations/:id/deny-refund", controllers.HandleDenyRefund)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
