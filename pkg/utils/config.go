package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Booking   BookingConfig
	Archive   ArchiveConfig
	RateLimit RateLimitConfig
	Push      PushConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
	// TrustGatewayIdentity accepts X-User-ID from an upstream gateway instead of a session token.
	TrustGatewayIdentity bool
	InternalToken        string
	AllowedOrigins       []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	MaxConns     int32
	QueryTimeout time.Duration
	TxRetries    int
	Migrate      bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	QueueKey string
}

type BookingConfig struct {
	CancelCutoff      time.Duration
	PublishWindowDays int
	MaxBoxers         int
}

type ArchiveConfig struct {
	Enabled               bool
	Interval              time.Duration
	BatchSize             int
	NotificationMaxAgeDay int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type PushConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// Location resolves the configured timezone used for slot dates and wall-clock times.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// DSN builds a postgres URL usable by both pgxpool and golang-migrate.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "boxing-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_TIMEZONE", "Local")
	viper.SetDefault("APP_TRUST_GATEWAY_IDENTITY", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_QUERY_TIMEOUT", "5s")
	viper.SetDefault("DB_TX_RETRIES", 3)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_QUEUE_KEY", "notifications:events")
	viper.SetDefault("BOOKING_CANCEL_CUTOFF_MINUTES", 30)
	viper.SetDefault("BOOKING_PUBLISH_WINDOW_DAYS", 7)
	viper.SetDefault("BOOKING_MAX_BOXERS", 50)
	viper.SetDefault("ARCHIVE_ENABLED", true)
	viper.SetDefault("ARCHIVE_INTERVAL", "24h")
	viper.SetDefault("ARCHIVE_BATCH_SIZE", 20)
	viper.SetDefault("ARCHIVE_NOTIFICATION_MAX_AGE_DAYS", 30)
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("PUSH_TIMEOUT", "3s")

	// .env is optional, the environment always wins
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:                 viper.GetString("APP_NAME"),
			Port:                 viper.GetString("PORT"),
			Debug:                viper.GetBool("DEBUG"),
			LogPath:              viper.GetString("LOG_PATH"),
			Timezone:             viper.GetString("APP_TIMEZONE"),
			TrustGatewayIdentity: viper.GetBool("APP_TRUST_GATEWAY_IDENTITY"),
			InternalToken:        viper.GetString("APP_INTERNAL_TOKEN"),
			AllowedOrigins:       splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASS"),
			MaxConns:     viper.GetInt32("DB_MAX_CONNS"),
			QueryTimeout: viper.GetDuration("DB_QUERY_TIMEOUT"),
			TxRetries:    viper.GetInt("DB_TX_RETRIES"),
			Migrate:      viper.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			QueueKey: viper.GetString("REDIS_QUEUE_KEY"),
		},
		Booking: BookingConfig{
			CancelCutoff:      time.Duration(viper.GetInt("BOOKING_CANCEL_CUTOFF_MINUTES")) * time.Minute,
			PublishWindowDays: viper.GetInt("BOOKING_PUBLISH_WINDOW_DAYS"),
			MaxBoxers:         viper.GetInt("BOOKING_MAX_BOXERS"),
		},
		Archive: ArchiveConfig{
			Enabled:               viper.GetBool("ARCHIVE_ENABLED"),
			Interval:              viper.GetDuration("ARCHIVE_INTERVAL"),
			BatchSize:             viper.GetInt("ARCHIVE_BATCH_SIZE"),
			NotificationMaxAgeDay: viper.GetInt("ARCHIVE_NOTIFICATION_MAX_AGE_DAYS"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Push: PushConfig{
			WebhookURL: viper.GetString("PUSH_WEBHOOK_URL"),
			Timeout:    viper.GetDuration("PUSH_TIMEOUT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects values that parse to a zero or negative duration, e.g. ARCHIVE_INTERVAL=1d.
func (c *Config) Validate() error {
	if c.Archive.Enabled && c.Archive.Interval <= 0 {
		return fmt.Errorf("ARCHIVE_INTERVAL must be a positive duration such as 24h")
	}
	if c.Push.Timeout < 0 || c.Database.QueryTimeout < 0 {
		return fmt.Errorf("PUSH_TIMEOUT and DB_QUERY_TIMEOUT must not be negative")
	}
	return nil
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
