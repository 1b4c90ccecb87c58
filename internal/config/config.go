package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	CORS         CORSConfig
	Log          LogConfig
	Notification NotificationConfig
	Cron         CronConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name    string `env:"APP_NAME" env-default:"calendar-backend"`
	Version string `env:"APP_VERSION" env-default:"dev"`
	Env     string `env:"APP_ENV" env-default:"development"`
	Port    int    `env:"APP_PORT" env-default:"8080"`
	BaseURL string `env:"APP_BASE_URL" env-default:"http://localhost:8080"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" env-default:"localhost"`
	Port        int    `env:"DB_PORT" env-default:"5432"`
	User        string `env:"DB_USER" env-default:"postgres"`
	Password    string `env:"DB_PASSWORD" env-required:"true"`
	Name        string `env:"DB_NAME" env-default:"event_calendar"`
	SSLMode     string `env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" env-default:"25"`
	MinConns    int32  `env:"DB_MIN_CONNS" env-default:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string        `env:"JWT_SECRET_KEY" env-required:"true"`
	AccessExpiration  time.Duration `env:"JWT_ACCESS_EXPIRATION_TIME" env-default:"1h"`
	RefreshExpiration time.Duration `env:"JWT_REFRESH_EXPIRATION_TIME" env-default:"168h"`
}

// SMTPConfig holds outgoing mail configuration. An empty Host disables delivery.
type SMTPConfig struct {
	Host       string `env:"SMTP_HOST"`
	Port       int    `env:"SMTP_PORT" env-default:"587"`
	Username   string `env:"SMTP_USERNAME"`
	Password   string `env:"SMTP_PASSWORD"`
	FromEmail  string `env:"SMTP_FROM_EMAIL" env-default:"no-reply@calendar.local"`
	FromName   string `env:"SMTP_FROM_NAME" env-default:"DILG Calendar Event Scheduling"`
	MaxRetries int    `env:"SMTP_MAX_RETRIES" env-default:"3"`
}

type StorageConfig struct {
	BasePath      string `env:"STORAGE_BASE_PATH" env-default:"./uploads"`
	BaseURL       string `env:"STORAGE_BASE_URL" env-default:"http://localhost:8080/uploads"`
	MaxUploadSize int64  `env:"STORAGE_MAX_UPLOAD_SIZE" env-default:"5242880"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

type NotificationConfig struct {
	// Concurrency bounds simultaneous SMTP sends per dispatch.
	Concurrency int `env:"NOTIFICATION_CONCURRENCY" env-default:"5"`
}

type CronConfig struct {
	SessionCleanupInterval time.Duration `env:"CRON_SESSION_CLEANUP_INTERVAL" env-default:"1h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.JWT.AccessExpiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		return fmt.Errorf("JWT expiration times must be positive")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	if c.Notification.Concurrency < 1 {
		return fmt.Errorf("NOTIFICATION_CONCURRENCY must be at least 1")
	}
	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
