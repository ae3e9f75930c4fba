package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maidsflow/control-api/app/controllers"
	"github.com/maidsflow/control-api/internal/pkg/middleware"
)

// InternalRouter carries operator-only routes: the manual scheduler
// trigger and queue introspection.
type InternalRouter struct {
}

func (h InternalRouter) InstallRouter(app *fiber.App) {
	internal := app.Group("/internal", middleware.InternalTokenMiddleware())
	internal.Post("/scheduler/run", controllers.HandleRunScheduler)
	internal.Get("/queue/stats", controllers.HandleQueueStats)
}

func NewInternalRouter() *InternalRouter {
	return &InternalRouter{}
}
