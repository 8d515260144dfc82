package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"resume-api/internal/observability"
)

// bodyLimit leaves room for a base64-encoded 10 MiB upload.
const bodyLimit = 16 << 20

type AppOptions struct {
	Origins        []string
	RatePerMinute  int
	RateBurst      int
	Metrics        *observability.Metrics
	DisableStartup bool
}

// NewApp builds the fiber application with middleware and every route.
func NewApp(h *Handler, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "resume-api",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: opts.DisableStartup,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	origins := strings.Join(opts.Origins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: origins != "" && origins != "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "*",
	}))

	limited := newIPLimiter(opts.RatePerMinute, opts.RateBurst, opts.Metrics).middleware()

	app.Get("/", h.Index)
	app.Get("/health", h.Health)
	app.Get("/resume/preview", h.Preview)
	app.Post("/resume/export", limited, h.Export)
	app.Post("/linkedin/add-experience", limited, h.AddExperience("linkedin", "LinkedIn"))
	app.Post("/simplify/add-experience", limited, h.AddExperience("simplify", "Simplify"))
	app.Post("/parse-resume", limited, h.ParseResume)
	app.Post("/parse-resume-url", limited, h.ParseResumeURL)
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}
	return app
}
