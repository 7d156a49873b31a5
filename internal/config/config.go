// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the API and its commands.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
	RabbitMQ RabbitMQConfig
	Workflow WorkflowConfig
	Storage  StorageConfig
	LogLevel string `validate:"oneof=debug info warn error"`
}

// AppConfig holds the listen address and deployment environment.
type AppConfig struct {
	Port string `validate:"required"`
	Env  string `validate:"oneof=development test production"`
}

// DatabaseConfig selects the SQL driver and sizes the connection pool.
type DatabaseConfig struct {
	Driver          string `validate:"oneof=postgres mysql sqlite"`
	URL             string `validate:"required"`
	MaxOpenConns    int    `validate:"gte=0"`
	MaxIdleConns    int    `validate:"gte=0"`
	ConnMaxLifetime time.Duration
}

// AuthConfig controls session tokens, their lifetime and admin usernames.
type AuthConfig struct {
	Secret         string        `validate:"required,min=32"`
	SessionTTL     time.Duration `validate:"gt=0"`
	UpdateAge      time.Duration `validate:"gt=0"`
	CookiePrefix   string        `validate:"required"`
	AdminUsernames []string
	SessionStore   string `validate:"oneof=database redis"`
}

// RedisConfig is only required when sessions are stored in Redis.
type RedisConfig struct {
	URL string `validate:"required_if=Store redis"`
	// Store mirrors Auth.SessionStore so the conditional rule above can see it.
	Store string
}

// HTTPConfig holds CORS origins and the API rate limit.
type HTTPConfig struct {
	CORSOrigins     []string
	RateLimitMax    int           `validate:"gt=0"`
	RateLimitWindow time.Duration `validate:"gt=0"`
}

// RabbitMQConfig points at the broker; an empty URL disables events.
type RabbitMQConfig struct {
	URL      string
	Exchange string `validate:"required"`
	Queue    string `validate:"required"`
}

// WorkflowConfig points at the workflow webhooks events are relayed to.
type WorkflowConfig struct {
	BaseURL string `validate:"omitempty,url"`
	Token   string
}

// StorageConfig holds the bucket and service account used for image URLs.
type StorageConfig struct {
	Bucket          string
	AccessID        string
	PrivateKey      string
	CredentialsFile string
}

// Enabled reports whether signed URLs can be produced.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessID != "" && s.PrivateKey != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("AUTH_SESSION_TTL", "168h")
	v.SetDefault("AUTH_SESSION_UPDATE_AGE", "24h")
	v.SetDefault("AUTH_COOKIE_PREFIX", "app")
	v.SetDefault("SESSION_STORE", "database")
	v.SetDefault("RATE_LIMIT_MAX", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog")
	v.SetDefault("RABBITMQ_QUEUE", "catalog_events")
}

// Load reads the configuration from v. A nil v uses a fresh viper instance
// bound to the process environment.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	setDefaults(v)

	durations := map[string]time.Duration{}
	for _, key := range []string{"DB_CONN_MAX_LIFETIME", "AUTH_SESSION_TTL", "AUTH_SESSION_UPDATE_AGE", "RATE_LIMIT_WINDOW"} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := &Config{
		App: AppConfig{
			Port: v.GetString("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("DB_DRIVER"),
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
		},
		Auth: AuthConfig{
			Secret:         v.GetString("AUTH_SECRET"),
			SessionTTL:     durations["AUTH_SESSION_TTL"],
			UpdateAge:      durations["AUTH_SESSION_UPDATE_AGE"],
			CookiePrefix:   v.GetString("AUTH_COOKIE_PREFIX"),
			AdminUsernames: splitList(v.GetString("AUTH_ADMIN_USERNAMES")),
			SessionStore:   v.GetString("SESSION_STORE"),
		},
		Redis: RedisConfig{
			URL:   v.GetString("REDIS_URL"),
			Store: v.GetString("SESSION_STORE"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:     splitList(v.GetString("CORS_ORIGIN")),
			RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
			RateLimitWindow: durations["RATE_LIMIT_WINDOW"],
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		},
		Workflow: WorkflowConfig{
			BaseURL: v.GetString("WORKFLOW_BASE_URL"),
			Token:   v.GetString("WORKFLOW_TOKEN"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("STORAGE_BUCKET"),
			AccessID:        v.GetString("STORAGE_ACCESS_ID"),
			PrivateKey:      strings.ReplaceAll(v.GetString("STORAGE_PRIVATE_KEY"), `\n`, "\n"),
			CredentialsFile: v.GetString("STORAGE_CREDENTIALS_FILE"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}
	return cfg, nil
}

// FieldError describes one invalid setting.
type FieldError struct {
	Field string
	Rule  string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s failed %q", e.Field, e.Rule)
}

// Validate checks every field and returns all violations at once.
func (c *Config) Validate() []FieldError {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "config", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: strings.TrimPrefix(fe.Namespace(), "Config."), Rule: fe.Tag()})
	}
	return out
}

// IsAdminUsername reports whether username is granted the admin role at sign-up.
func (a AuthConfig) IsAdminUsername(username string) bool {
	for _, u := range a.AdminUsernames {
		if strings.EqualFold(u, username) {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
