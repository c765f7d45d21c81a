package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
	Locale   LocaleConfig
}

type ServerConfig struct {
	Port           string
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// PoolDSN is used by the pgxpool connection (users, health).
	PoolDSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment     string
	LogLevel        string
	Version         string
	NonceSecret     string
	NonceTTL        time.Duration
	IdentitySecret  string
	IdentityTTL     time.Duration
	AuditSchedule   string
	PermalinkFormat string
}

// LocaleConfig holds the number formatting rules of the active site locale.
type LocaleConfig struct {
	DecimalPoint string
	ThousandsSep string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 40),
			CORSOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "orbis"),
			PoolDSN:  getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment:     getEnv("APP_ENV", "development"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			NonceSecret:     getEnv("NONCE_SECRET", ""),
			NonceTTL:        getEnvAsDuration("NONCE_TTL", 24*time.Hour),
			IdentitySecret:  getEnv("IDENTITY_SECRET", ""),
			IdentityTTL:     getEnvAsDuration("IDENTITY_TTL", 12*time.Hour),
			AuditSchedule:   getEnv("AUDIT_SCHEDULE", "0 30 3 * * *"),
			PermalinkFormat: getEnv("PERMALINK_FORMAT", "/?p=%d"),
		},
		Locale: LocaleConfig{
			DecimalPoint: getEnv("LOCALE_DECIMAL_POINT", ","),
			ThousandsSep: getEnv("LOCALE_THOUSANDS_SEP", "."),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.Database.Driver)
	}

	if c.App.Environment == "production" && c.App.NonceSecret == "" {
		return fmt.Errorf("NONCE_SECRET is required in production")
	}

	if c.App.Environment == "production" && c.App.IdentitySecret == "" {
		return fmt.Errorf("IDENTITY_SECRET is required in production")
	}

	for _, origin := range c.Server.CORSOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}

	if c.Locale.DecimalPoint == "" {
		return fmt.Errorf("LOCALE_DECIMAL_POINT is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logrus.Warnf("Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		logrus.Warnf("Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logrus.Warnf("Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
