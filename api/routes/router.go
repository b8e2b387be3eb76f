// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"antesala/docs"
	"antesala/internal/analytics"
	"antesala/internal/backup"
	"antesala/internal/catalog"
	"antesala/internal/invoices"
	"antesala/internal/reservations"
	"antesala/internal/shared/config"
	"antesala/internal/shared/database"
	"antesala/pkg/logger"
	"antesala/pkg/ratelimit"
)

// Dependencies are the services the routes are built from
type Dependencies struct {
	DB        *database.DB
	Manager   *reservations.Manager
	Analytics analytics.Service
	// Limiter is nil when rate limiting is disabled
	Limiter *ratelimit.RateLimiter
	Logger  *logger.Logger
}

// Router holds all route dependencies
type Router struct {
	config *config.Config
	deps   Dependencies
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, deps Dependencies) *Router {
	if deps.Logger == nil {
		deps.Logger = logger.GetDefault()
	}
	if deps.DB == nil {
		deps.DB = &database.DB{}
	}
	return &Router{config: cfg, deps: deps}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	docs.Register(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	if r.deps.Limiter != nil {
		// Budgets are picked per route: writes, quotes, analytics, the rest
		api.Use(ratelimit.Middleware(r.deps.Limiter, r.deps.Logger))
	}
	{
		r.setupCatalogRoutes(api)
		r.setupReservationRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.deps.DB.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "antesala",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "antesala",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "operational",
			"api_version":     r.config.APIVersion,
			"storage_backend": r.config.Storage.Backend,
			"reservations":    len(r.deps.Manager.List(reservations.SortNone)),
			"sync":            r.deps.Manager.SyncState(),
			"timestamp":       time.Now(),
		})
	})
}

func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	policy := r.deps.Manager.Policy()
	catalogController := catalog.NewController(r.deps.Manager.Catalog(), policy.Fees.Fee)
	catalog.SetupCatalogRoutes(rg, catalogController)
}

// setupReservationRoutes registers pricing, lifecycle, invoice and backup routes.
// Static segments such as /reservations/export sit beside /reservations/:id.
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationController := reservations.NewController(r.deps.Manager)
	reservations.SetupReservationRoutes(rg, reservationController)

	invoiceController := invoices.NewController(r.deps.Manager, invoices.NewBuilder(r.deps.Manager.Catalog()))
	invoices.SetupInvoiceRoutes(rg, invoiceController)

	backup.SetupBackupRoutes(rg, backup.NewController(r.deps.Manager))
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	if r.deps.Analytics == nil {
		return
	}
	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(r.deps.Analytics))
}
