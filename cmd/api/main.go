package main

import (
	"context"
	"log"
	"time"

	adapterhttp "todolist/internal/adapter/http"
	adaptertelemetry "todolist/internal/adapter/telemetry"
	"todolist/internal/config"
	"todolist/internal/core/logger"

	"go.uber.org/zap"
)

var version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	appLogger, err := logger.New(logger.Config{
		ServiceName: cfg.ServiceName,
		Level:       cfg.LogLevel,
		LokiURL:     cfg.LokiURL,
	})
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		appLogger.Shutdown(shutdownCtx)
		appLogger.Sync()
	}()

	telemetry, err := adaptertelemetry.NewContainer(ctx, adaptertelemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, appLogger)
	if err != nil {
		appLogger.Logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			appLogger.Logger.Error("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	telemetry.AppMetrics.StartSystemMetrics(metricsCtx)

	server, err := adapterhttp.NewServer(ctx, cfg, telemetry.AppMetrics, appLogger, telemetry.NewTelemetryProbe(appLogger))
	if err != nil {
		appLogger.Logger.Fatal("Failed to initialize server", zap.Error(err))
	}

	if err := server.Run(ctx); err != nil {
		appLogger.Logger.Error("Server stopped with error", zap.Error(err))
	}
}
