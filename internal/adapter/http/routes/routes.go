package routes

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"todolist/internal/adapter/http/handler"
	. "todolist/internal/adapter/http/helper"
	"todolist/internal/adapter/http/middleware"
	"todolist/internal/config"
	"todolist/internal/core/logger"
	"todolist/internal/core/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type HandlersConfig struct {
	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, log *logger.Logger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, log, config.GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, log *logger.Logger, cfg *config.AppConfig) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()

	router.Use(middleware.HTTPSMiddleware(cfg.EnforceHTTPS, log.Logger.Logger))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		SendInternalError(c)
		c.Abort()
	}))
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitConfigs, log.Logger.Logger, metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.Use(middleware.ErrorReporter(log))

	if handlers.HealthHandler != nil {
		router.GET("/healthz", handlers.HealthHandler.Check)
	}

	if handlers.TodoHandler != nil {
		setupTodoRoutes(router, handlers.TodoHandler)
	}

	router.NoRoute(staticHandler(cfg.StaticDir))

	return router
}

func setupTodoRoutes(router *gin.Engine, todoHandler *handler.TodoHandler) {
	api := router.Group("/api")
	{
		api.POST("/todos", todoHandler.CreateTodo)
		api.GET("/todos", todoHandler.GetAllTodos)
		api.PATCH("/todos/:todoId", todoHandler.UpdateTodo)
		api.DELETE("/todos/:todoId", todoHandler.DeleteTodo)
	}
}

// staticHandler serves the front-end for every path the API does not own.
// A Static("/") mount would collide with the /api group.
func staticHandler(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(gin.Dir(dir, false))

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if dir == "" || path == "/api" || strings.HasPrefix(path, "/api/") {
			SendNotFoundError(c, "resource not found")
			return
		}

		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			SendNotFoundError(c, "resource not found")
			return
		}

		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{
			middleware.RequestIDHeader,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		MaxAge: 12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}

	return cors.New(corsConfig)
}
