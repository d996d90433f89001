package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/chnm/relcensus-backend/config"
	"github.com/chnm/relcensus-backend/internal/analytics"
	"github.com/chnm/relcensus-backend/internal/auditlog"
	"github.com/chnm/relcensus-backend/internal/auth"
	"github.com/chnm/relcensus-backend/internal/census"
	"github.com/chnm/relcensus-backend/internal/denomination"
	"github.com/chnm/relcensus-backend/internal/location"
	"github.com/chnm/relcensus-backend/internal/notification"
	"github.com/chnm/relcensus-backend/middleware"
)

// Setup wires every repository, service, and handler and registers the routes.
func Setup(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Repositories
	authRepo := auth.NewRepository(db)
	auditRepo := auditlog.NewRepository(db)
	denominationRepo := denomination.NewRepository(db)
	locationRepo := location.NewRepository(db)
	censusRepo := census.NewRepository(db)
	analyticsRepo := analytics.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// Services
	auditSvc := auditlog.NewService(auditRepo)
	authSvc := auth.NewService(authRepo, auditSvc, cfg.JWTSecret)
	denominationSvc := denomination.NewService(denominationRepo)
	locationSvc := location.NewService(locationRepo)
	notificationSvc := notification.NewService(notificationRepo, authRepo)
	censusSvc := census.NewService(censusRepo, auditSvc, notificationSvc)
	analyticsSvc := analytics.NewService(analyticsRepo)

	// Handlers
	authHandler := auth.NewHandler(authSvc)
	auditHandler := auditlog.NewHandler(auditSvc)
	denominationHandler := denomination.NewHandler(denominationSvc)
	locationHandler := location.NewHandler(locationSvc)
	censusHandler := census.NewHandler(censusSvc)
	analyticsHandler := analytics.NewHandler(analyticsSvc, cfg.AdminSiteURL)
	notificationHandler := notification.NewHandler(notificationSvc)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())

	// Public surfaces: reference data, browsing, and the map.
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/register", authHandler.Register)

	denominations := api.Group("/denominations")
	{
		denominations.GET("", denominationHandler.List)
		denominations.GET("/families", denominationHandler.Families)
		denominations.GET("/by-family", denominationHandler.ByFamily)
	}

	locations := api.Group("/locations")
	{
		locations.GET("", locationHandler.List)
		locations.GET("/states", locationHandler.States)
	}

	bodies := api.Group("/religious-bodies")
	{
		bodies.GET("", censusHandler.ListBodies)
		bodies.GET("/map-data", censusHandler.MapData)
		bodies.GET("/:id", censusHandler.GetBody)
	}

	schedules := api.Group("/schedules")
	{
		schedules.GET("", censusHandler.ListSchedules)
		schedules.GET("/:resourceID", censusHandler.GetSchedule)
	}

	// Workflow actions require a login; assignment and status changes are for
	// reviewers and admins.
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authRepo, cfg.JWTSecret))
	{
		protected.PUT("/schedules/:id", censusHandler.UpdateSchedule)
		protected.GET("/notifications", notificationHandler.List)
		protected.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		protected.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	workflow := api.Group("/schedules")
	workflow.Use(middleware.AuthMiddleware(authRepo, cfg.JWTSecret))
	workflow.Use(middleware.RequireRoles(auth.RoleReviewer, auth.RoleSuperAdmin))
	{
		workflow.PATCH("/:id/status", censusHandler.SetStatus)
		workflow.PATCH("/:id/assign", censusHandler.Assign)
		workflow.PATCH("/bulk-status", censusHandler.BulkSetStatus)
	}

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(authRepo, cfg.JWTSecret))
	admin.Use(middleware.RequireRoles(auth.RoleSuperAdmin))
	{
		admin.GET("/audit-logs", auditHandler.List)
	}

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Use(middleware.AuthMiddleware(authRepo, cfg.JWTSecret))
	analyticsGroup.Use(middleware.RequireRoles(auth.RoleReviewer, auth.RoleSuperAdmin))
	{
		analyticsGroup.GET("/query", analyticsHandler.Query)
		analyticsGroup.GET("/dashboard", analyticsHandler.Dashboard)
		analyticsGroup.GET("/completeness", analyticsHandler.Completeness)
	}
}
