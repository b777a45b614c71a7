package http

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"todolist/internal/adapter/http/routes"
	"todolist/internal/config"
	"todolist/internal/core/logger"
	"todolist/internal/core/port"
	"todolist/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	config    *config.AppConfig
	logger    *logger.Logger
	container *Container
	server    *http.Server
}

func NewServer(ctx context.Context, cfg *config.AppConfig, metrics *telemetry.AppMetrics, log *logger.Logger, probe port.Telemetry) (*Server, error) {
	container, err := NewContainer(ctx, cfg, log, probe)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:    cfg,
		logger:    log,
		container: container,
		server:    newHTTPServer(cfg, newRouter(container, metrics, log, cfg)),
	}, nil
}

func newRouter(container *Container, metrics *telemetry.AppMetrics, log *logger.Logger, cfg *config.AppConfig) *gin.Engine {
	return routes.SetupRouterWithConfig(routes.HandlersConfig{
		TodoHandler:   container.TodoHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, log, cfg)
}

func newHTTPServer(cfg *config.AppConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests for at most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := s.container.Close(); err != nil {
			s.logger.Logger.Error("Failed to close storage", zap.Error(err))
		}
	}()

	serveErr := make(chan error, 1)

	go func() {
		s.logger.Logger.Info("Server starting",
			zap.String("addr", s.server.Addr),
			zap.String("environment", s.config.Environment),
			zap.String("database_driver", s.config.DatabaseDriver),
			zap.Bool("rate_limit_enabled", s.config.RateLimitEnabled),
			zap.Bool("https_enforced", s.config.EnforceHTTPS))

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
