package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestGetDefaultConfig(t *testing.T) {
	RegisterTestingT(t)

	config := GetDefaultConfig()

	Expect(config.Port).To(Equal("8080"))
	Expect(config.DatabaseDriver).To(Equal(DriverSQLite))
	Expect(config.DatabasePath).To(Equal("todos.db"))
	Expect(config.StaticDir).To(Equal("./assets"))
	Expect(config.RateLimitEnabled).To(BeTrue())
	Expect(config.RateLimitConfigs).To(HaveKey("default"))
	Expect(config.CORSAllowedOrigins).To(Equal([]string{"*"}))
	Expect(config.Validate()).To(Succeed())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	config, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	Expect(err).To(BeNil())
	Expect(config.Port).To(Equal("3000"))
	Expect(config.DatabaseDriver).To(Equal(DriverRedis))
	Expect(config.RateLimitEnabled).To(BeFalse())
	Expect(config.CORSAllowedOrigins).To(Equal([]string{"http://a.test", "http://b.test"}))
	Expect(config.MetricsPort).To(BeEmpty())
	Expect(config.ShutdownTimeout).To(Equal(3 * time.Second))
}

func TestLoad_DotEnvFile(t *testing.T) {
	RegisterTestingT(t)

	file := filepath.Join(t.TempDir(), ".env")
	Expect(os.WriteFile(file, []byte("STATIC_DIR=/srv/public\nLOG_LEVEL=debug\n"), 0o600)).To(Succeed())

	// godotenv never overrides variables that are already set.
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STATIC_DIR", "")
	os.Unsetenv("STATIC_DIR")

	config, err := Load(file)

	Expect(err).To(BeNil())
	Expect(config.StaticDir).To(Equal("/srv/public"))
	Expect(config.LogLevel).To(Equal("warn"))
}

func TestLoad_InvalidValues(t *testing.T) {
	RegisterTestingT(t)
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("RATE_LIMIT_ENABLED", "maybe")
	_, err := Load(missing)
	Expect(err).To(MatchError(ContainSubstring("RATE_LIMIT_ENABLED")))

	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err = Load(missing)
	Expect(err).To(MatchError(ContainSubstring("DATABASE_URL")))

	t.Setenv("DATABASE_DRIVER", "mongo")
	_, err = Load(missing)
	Expect(err).To(MatchError(ContainSubstring("unknown DATABASE_DRIVER")))
}
