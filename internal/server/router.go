package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"landscaping/internal/domain/activity"
	"landscaping/internal/domain/billing"
	"landscaping/internal/domain/directory"
	"landscaping/internal/domain/job"
	"landscaping/internal/domain/quote"
	"landscaping/internal/domain/report"
	"landscaping/internal/middleware"
	"landscaping/internal/pkg/response"
	"landscaping/internal/repository"
)

// Deps are the resources New wires into the services.
type Deps struct {
	Store       *repository.Store
	ReportCache report.Cache
	CORSOrigins []string
}

// App holds the wired services so callers (cmd/seed, tests) can reach them without HTTP.
type App struct {
	Engine    *gin.Engine
	Bus       *activity.Bus
	Hub       *activity.Hub
	Directory *directory.Service
	Quotes    *quote.Service
	Jobs      *job.Service
	Billing   *billing.Service
	Reports   *report.Service
}

// New wires services, the activity bus and the HTTP routes.
func New(deps Deps) *App {
	cache := deps.ReportCache
	if cache == nil {
		cache = report.NopCache{}
	}

	bus := activity.NewBus()
	hub := activity.NewHub()

	app := &App{
		Bus:       bus,
		Hub:       hub,
		Directory: directory.NewService(deps.Store, bus),
		Quotes:    quote.NewService(deps.Store, bus),
		Jobs:      job.NewService(deps.Store, bus),
		Billing:   billing.NewService(deps.Store, bus),
		Reports:   report.NewService(deps.Store, cache),
	}

	bus.Subscribe(hub.Listen)
	bus.Subscribe(app.Reports.Invalidate)

	r := gin.New()
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID(), middleware.ErrorLogger(), middleware.CORS(deps.CORSOrigins))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health(deps.Store))

		directory.NewHandler(app.Directory).RegisterRoutes(v1)
		quote.NewHandler(app.Quotes).RegisterRoutes(v1)
		job.NewHandler(app.Jobs).RegisterRoutes(v1)
		billing.NewHandler(app.Billing).RegisterRoutes(v1)
		report.NewHandler(app.Reports).RegisterRoutes(v1)
		activity.NewHandler(hub, deps.CORSOrigins).RegisterRoutes(v1)
	}

	app.Engine = r
	return app
}

func health(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
