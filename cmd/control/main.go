package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/maidsflow/control-api/app/controllers"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/cache"
	"github.com/maidsflow/control-api/internal/pkg/cancellation"
	"github.com/maidsflow/control-api/internal/pkg/database"
	"github.com/maidsflow/control-api/internal/pkg/env"
	"github.com/maidsflow/control-api/internal/pkg/jobqueue"
	"github.com/maidsflow/control-api/internal/pkg/quota"
	"github.com/maidsflow/control-api/internal/pkg/router"
	"github.com/maidsflow/control-api/internal/pkg/scheduling"
)

func main() {
	app, runner, manager := NewApplication()

	manager.Start()
	runner.Start()

	// graceful shutdown on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		runner.Stop()
		manager.Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *scheduling.Runner, *jobqueue.Manager) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	enforcer := quota.NewEnforcer(repos.Plan, repos.Appointment, repos.Customer, repos.Team, repos.Professional)
	detector := scheduling.NewConflictDetector(repos.Appointment)
	materializer := scheduling.NewMaterializer(repos.Recurrence, repos.Appointment, detector, enforcer)
	runner := scheduling.NewRunner(repos.Recurrence, materializer)

	manager := jobqueue.GetManager()
	coordinator := cancellation.NewCoordinator(repos.Appointment, repos.Cancellation, manager.GetQueue())

	controllers.InitializeSchedulingControllers(enforcer, detector, coordinator, runner)

	app := fiber.New(fiber.Config{
		AppName: "maidsflow-control-api",
	})

	app.Use(recover.New(), logger.New())

	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	router.InstallRouter(app)

	return app, runner, manager
}
