package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"todolist/db/migrations"
)

const MemoryPath = ":memory:"

type Config struct {
	Path     string
	LogQuery bool
}

type DB struct {
	*sql.DB
	QueryBuilder squirrel.StatementBuilderType
}

// NewDB opens the database at config.Path with tracing and query logging and
// brings the schema up to date.
func NewDB(config Config) (*DB, error) {
	path := config.Path
	if path == "" {
		path = "todos.db"
	}

	dsn := buildDSN(path)

	tracedDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todolist"),
	)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Only the instrumented driver is kept; the pool below owns the connections.
	tracedDriver := tracedDB.Driver()
	if err := tracedDB.Close(); err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	level := zerolog.InfoLevel
	if config.LogQuery {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	sqlDB := sqldblogger.OpenDriver(dsn, tracedDriver, zerologadapter.New(logger),
		sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
	)

	return Open(sqlDB, path == MemoryPath)
}

// Open wraps an already opened connection and runs the migrations on it.
// In-memory databases live inside a single connection, so the pool is pinned.
func Open(sqlDB *sql.DB, inMemory bool) (*DB, error) {
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &DB{
		DB:           sqlDB,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func RunMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.SQLite, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func buildDSN(path string) string {
	if path == MemoryPath || strings.Contains(path, "?") {
		return path
	}

	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
}
