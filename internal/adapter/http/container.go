package http

import (
	"context"
	"fmt"

	"todolist/internal/adapter/database/postgres"
	postgresrepo "todolist/internal/adapter/database/postgres/repository"
	"todolist/internal/adapter/database/redis"
	redisrepo "todolist/internal/adapter/database/redis/repository"
	"todolist/internal/adapter/database/sqlite"
	sqliterepo "todolist/internal/adapter/database/sqlite/repository"

	"todolist/internal/adapter/http/handler"
	"todolist/internal/config"
	"todolist/internal/core/logger"
	"todolist/internal/core/port"
	"todolist/internal/core/service"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService

	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler

	closeStorage func() error
}

// NewContainer opens the storage backend selected by cfg.DatabaseDriver and
// wires the service and handlers on top of it.
func NewContainer(ctx context.Context, cfg *config.AppConfig, log *logger.Logger, probe port.Telemetry) (*Container, error) {
	repo, closeStorage, err := openRepository(ctx, cfg, probe)
	if err != nil {
		return nil, err
	}

	return newContainer(repo, closeStorage, log, probe), nil
}

func newContainer(repo port.TodoRepository, closeStorage func() error, log *logger.Logger, probe port.Telemetry) *Container {
	todoSvc := service.NewTodoService(repo, probe)

	return &Container{
		TodoRepo:      repo,
		TodoService:   todoSvc,
		TodoHandler:   handler.NewTodoHandler(todoSvc, log),
		HealthHandler: handler.NewHealthHandler(todoSvc, log),
		closeStorage:  closeStorage,
	}
}

func (c *Container) Close() error {
	if c.closeStorage == nil {
		return nil
	}
	return c.closeStorage()
}

func openRepository(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (port.TodoRepository, func() error, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(sqlite.Config{
			Path:     cfg.DatabasePath,
			LogQuery: cfg.LogLevel == "debug",
		})
		if err != nil {
			return nil, nil, err
		}
		return sqliterepo.NewTodoRepository(db, probe), db.Close, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return postgresrepo.NewTodoRepository(db, probe), func() error {
			db.Close()
			return nil
		}, nil

	case config.DriverRedis:
		db, err := redis.NewDB(ctx, cfg.RedisURL, cfg.ServiceName)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewTodoRepository(db, probe), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
}
