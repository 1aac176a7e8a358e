package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Fixture sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceDatabase = "database"
)

// Fixture database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Fixture   FixtureConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env             string        `mapstructure:"APP_ENV"`
	HTTPPort        string        `mapstructure:"HTTP_PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// FixtureConfig selects where the session's seed data comes from.
type FixtureConfig struct {
	Source string `mapstructure:"FIXTURE_SOURCE"` // embedded, file, database
	Dir    string `mapstructure:"FIXTURE_DIR"`    // directory of books/users/transactions files

	Driver     string `mapstructure:"FIXTURE_DB_DRIVER"` // sqlite, postgres
	SQLitePath string `mapstructure:"FIXTURE_DB_PATH"`
	Host       string `mapstructure:"FIXTURE_DB_HOST"`
	Port       string `mapstructure:"FIXTURE_DB_PORT"`
	User       string `mapstructure:"FIXTURE_DB_USER"`
	Password   string `mapstructure:"FIXTURE_DB_PASSWORD"`
	Name       string `mapstructure:"FIXTURE_DB_NAME"`
	SSLMode    string `mapstructure:"FIXTURE_DB_SSLMODE"`
}

// RedisConfig holds configuration for the Redis client
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
}

// RateLimitConfig holds configuration for the HTTP rate limiter.
// The limiter needs Redis; it is off unless Enabled is set.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS"`
	Burst             int     `mapstructure:"RATE_LIMIT_BURST"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from app.env in path and from environment
// variables. A missing app.env is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config

	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeout = v.GetDuration("SHUTDOWN_TIMEOUT")

	config.Fixture.Source = strings.ToLower(v.GetString("FIXTURE_SOURCE"))
	config.Fixture.Dir = v.GetString("FIXTURE_DIR")
	config.Fixture.Driver = strings.ToLower(v.GetString("FIXTURE_DB_DRIVER"))
	config.Fixture.SQLitePath = v.GetString("FIXTURE_DB_PATH")
	config.Fixture.Host = v.GetString("FIXTURE_DB_HOST")
	config.Fixture.Port = v.GetString("FIXTURE_DB_PORT")
	config.Fixture.User = v.GetString("FIXTURE_DB_USER")
	config.Fixture.Password = v.GetString("FIXTURE_DB_PASSWORD")
	config.Fixture.Name = v.GetString("FIXTURE_DB_NAME")
	config.Fixture.SSLMode = v.GetString("FIXTURE_DB_SSLMODE")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.Burst = v.GetInt("RATE_LIMIT_BURST")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("FIXTURE_SOURCE", SourceEmbedded)
	v.SetDefault("FIXTURE_DIR", "./fixtures")
	v.SetDefault("FIXTURE_DB_DRIVER", DriverSQLite)
	v.SetDefault("FIXTURE_DB_PATH", "./fixtures/library.db")
	v.SetDefault("FIXTURE_DB_HOST", "localhost")
	v.SetDefault("FIXTURE_DB_PORT", "5432")
	v.SetDefault("FIXTURE_DB_USER", "postgres")
	v.SetDefault("FIXTURE_DB_PASSWORD", "postgres")
	v.SetDefault("FIXTURE_DB_NAME", "library_desk")
	v.SetDefault("FIXTURE_DB_SSLMODE", "disable")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	// Logger defaults
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "library-desk")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate reports every configuration problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	if c.App.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT must be set"))
	}
	if c.App.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	switch c.Fixture.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Fixture.Dir == "" {
			errs = append(errs, errors.New("FIXTURE_DIR must be set for the file source"))
		}
	case SourceDatabase:
		switch c.Fixture.Driver {
		case DriverSQLite:
			if c.Fixture.SQLitePath == "" {
				errs = append(errs, errors.New("FIXTURE_DB_PATH must be set for sqlite"))
			}
		case DriverPostgres:
			if c.Fixture.Host == "" || c.Fixture.Name == "" {
				errs = append(errs, errors.New("FIXTURE_DB_HOST and FIXTURE_DB_NAME must be set for postgres"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown FIXTURE_DB_DRIVER %q", c.Fixture.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown FIXTURE_SOURCE %q", c.Fixture.Source))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
		}
		if c.RateLimit.Burst < 1 {
			errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

// DSN returns the fixture database data source name for the configured driver.
func (c *FixtureConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
