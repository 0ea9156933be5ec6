package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Kosench/go-shortlink/internal/database"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix        = "SHORTLINK"
	MinSessionSecret = 16
)

var ErrMissingSessionSecret = errors.New("session.secret is required")

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	App      AppConfig      `mapstructure:"app"`
	Session  SessionConfig  `mapstructure:"session"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type AppConfig struct {
	BaseURL         string   `mapstructure:"base_url"`
	ShortCodeLength int      `mapstructure:"short_code_length"`
	MaxAttempts     int      `mapstructure:"max_attempts"`
	Environment     string   `mapstructure:"environment"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

type CacheConfig struct {
	Driver string `mapstructure:"driver"`
	// TTL in seconds.
	TTL int `mapstructure:"ttl"`
}

type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	MaxRetries   int    `mapstructure:"max_retry"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Load reads .env (if present), config.yaml from ./configs or the working
// directory, and SHORTLINK_* environment variables, in increasing priority.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	return load(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", database.DefaultSQLitePath)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "shortlink")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "shortlink")
	v.SetDefault("database.sslmode", "disable")

	// App defaults
	v.SetDefault("app.base_url", "")
	v.SetDefault("app.short_code_length", 6)
	v.SetDefault("app.max_attempts", 10000)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.allowed_origins", []string{})

	// No default: an empty secret fails validation.
	v.SetDefault("session.secret", "")

	v.SetDefault("cache.driver", "none")
	v.SetDefault("cache.ttl", 3600)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.max_retry", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("sentry.dsn", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.App.BaseURL == "" {
		scheme := "http"
		if config.IsProduction() {
			scheme = "https"
		}
		config.App.BaseURL = fmt.Sprintf("%s://%s:%s", scheme, config.Server.Host, config.Server.Port)
	}
	config.App.BaseURL = strings.TrimRight(config.App.BaseURL, "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("%w: set %s_SESSION_SECRET", ErrMissingSessionSecret, EnvPrefix)
	}
	if len(c.Session.Secret) < MinSessionSecret {
		return fmt.Errorf("session.secret must be at least %d bytes, got %d", MinSessionSecret, len(c.Session.Secret))
	}

	if _, err := database.ParseDialect(c.Database.Driver); err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}

	switch strings.ToLower(c.Cache.Driver) {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache.driver %q", c.Cache.Driver)
	}

	if c.App.MaxAttempts <= 0 {
		return fmt.Errorf("app.max_attempts must be positive, got %d", c.App.MaxAttempts)
	}

	return nil
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) GetBaseURL() string {
	return c.App.BaseURL
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

func (c *Config) IsProduction() bool {
	return strings.ToLower(c.App.Environment) == "production"
}

func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.App.Environment) == "development"
}

func (c *Config) GetAllowedOrigins() []string {
	if len(c.App.AllowedOrigins) == 0 {
		if c.IsProduction() {
			// production only trusts its own origin unless told otherwise
			return []string{c.App.BaseURL}
		}
		return []string{"*"}
	}
	return c.App.AllowedOrigins
}
