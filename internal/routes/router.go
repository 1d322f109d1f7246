package routes

import (
	"io"
	"net/http"

	"gramroute/internal/config"
	"gramroute/internal/delivery/http/handler"
	"gramroute/internal/events"
	"gramroute/internal/infrastructure/database/postgres"
	"gramroute/internal/logger"
	"gramroute/internal/middleware"
	"gramroute/internal/usecase/report"
	"gramroute/internal/usecase/user"
	"gramroute/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes builds the engine. The returned stop function releases the
// background work started for the routes and must be called on shutdown.
func SetupRoutes(cfg *config.Config, db *postgres.DB, publisher events.Publisher) (*gin.Engine, func()) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, rate limit
	router.Use(gin.CustomRecoveryWithWriter(io.Discard, recoverPanic))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxRequestBytes))
	limiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	router.Use(middleware.RateLimitMiddleware(limiter))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "GramRoute backend is working!"})
	})

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepository := postgres.NewUserRepository(db)
	reportRepository := postgres.NewReportRepository(db)

	userService := user.NewService(userRepository, reportRepository, cfg)
	userHandler := handler.NewUserHandler(userService)

	reportService := report.NewService(reportRepository, publisher, cfg)
	reportHandler := handler.NewReportHandler(reportService)

	api := router.Group("/api")
	{
		userHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterProfileRoutes(protected)
			reportHandler.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				reportHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router, limiter.Stop
}

func recoverPanic(c *gin.Context, recovered interface{}) {
	logger.WithRequestID(middleware.GetRequestID(c)).Error("Recovered from panic",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	utils.AbortWithError(c, http.StatusInternalServerError, "Internal server error")
}
