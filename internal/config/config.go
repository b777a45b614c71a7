package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type AppConfig struct {
	ServiceName string
	Port        string
	GinMode     string
	Environment string
	LogLevel    string

	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string
	RedisURL       string

	StaticDir string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS       bool
	CORSAllowedOrigins []string

	MetricsPort  string
	OTLPEndpoint string
	LokiURL      string

	ShutdownTimeout time.Duration
}

// RateLimitConfig is keyed in AppConfig by "METHOD /route" or "/route".
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName: "todolist",
		Port:        "8080",
		Environment: "development",
		LogLevel:    "info",

		DatabaseDriver: DriverSQLite,
		DatabasePath:   "todos.db",

		StaticDir: "./assets",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /api/todos": {
				Requests: 30,
				Window:   time.Minute,
			},
			"PATCH /api/todos/:todoId": {
				Requests: 60,
				Window:   time.Minute,
			},
			"DELETE /api/todos/:todoId": {
				Requests: 30,
				Window:   time.Minute,
			},
			"/api/todos": {
				Requests: 120,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},

		CORSAllowedOrigins: []string{"*"},

		MetricsPort: "9091",

		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads an optional .env file and applies environment overrides on top
// of the defaults. Variables already present in the environment win over the
// file.
func Load(files ...string) (*AppConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	config := GetDefaultConfig()

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *AppConfig) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.Environment, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DatabaseDriver, "DATABASE_DRIVER")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.StaticDir, "STATIC_DIR")
	setString(&c.OTLPEndpoint, "OTLP_ENDPOINT")
	setString(&c.LokiURL, "LOKI_URL")

	// An explicitly empty METRICS_PORT disables the metrics server.
	if value, ok := os.LookupEnv("METRICS_PORT"); ok {
		c.MetricsPort = strings.TrimSpace(value)
	}

	if value := os.Getenv("CORS_ALLOWED_ORIGINS"); value != "" {
		c.CORSAllowedOrigins = splitList(value)
	}

	if err := setBool(&c.RateLimitEnabled, "RATE_LIMIT_ENABLED"); err != nil {
		return err
	}

	if err := setBool(&c.EnforceHTTPS, "ENFORCE_HTTPS"); err != nil {
		return err
	}

	if value := os.Getenv("SHUTDOWN_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", value, err)
		}
		c.ShutdownTimeout = timeout
	}

	return nil
}

func (c *AppConfig) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the %s driver", c.DatabaseDriver)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", c.DatabaseDriver)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s driver", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func setString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func setBool(target *bool, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}

	*target = parsed
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}

	return result
}
