package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llmrank/crawlengine/internal/jobs"
)

// Server wires the job manager to the fiber HTTP surface.
type Server struct {
	app     *fiber.App
	manager *jobs.Manager
	logger  zerolog.Logger
}

// New builds a fiber app with cors/logger/recover middleware, a request-id
// stamp, and HMAC-signed job routes under /api/v1.
func New(manager *jobs.Manager, sharedSecret string, log zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "crawlengine",
		ErrorHandler: defaultErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(requestID())

	s := &Server{app: app, manager: manager, logger: log}

	app.Get("/api/v1/health", s.health)

	jobsGroup := app.Group("/api/v1/jobs", hmacAuth(sharedSecret))
	jobsGroup.Post("/", s.createJob)
	jobsGroup.Get("/:id/status", s.jobStatus)
	jobsGroup.Post("/:id/cancel", s.cancelJob)

	return s
}

// App exposes the underlying fiber app for Listen/Shutdown.
func (s *Server) App() *fiber.App {
	return s.app
}

func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-Id", id)
		c.Locals("requestID", id)
		return c.Next()
	}
}

func defaultErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
