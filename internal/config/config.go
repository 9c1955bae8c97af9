package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yigit/fypdash/internal/pkg/helpers"
	"gopkg.in/yaml.v3"
)

// Session store drivers
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Upload drivers
const (
	UploadRemote = "remote"
	UploadLocal  = "local"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL       string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Backend struct {
		BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL"`
		Timeout string `yaml:"timeout" env:"BACKEND_TIMEOUT"`
	} `yaml:"backend"`

	Upload struct {
		Driver    string `yaml:"driver" env:"UPLOAD_DRIVER"`
		URL       string `yaml:"url" env:"UPLOAD_URL"`
		Preset    string `yaml:"preset" env:"UPLOAD_PRESET"`
		Timeout   string `yaml:"timeout" env:"UPLOAD_TIMEOUT"`
		LocalDir  string `yaml:"local_dir" env:"UPLOAD_LOCAL_DIR"`
		LocalPath string `yaml:"local_path" env:"UPLOAD_LOCAL_PATH"`
	} `yaml:"upload"`

	Session struct {
		Store      string `yaml:"store" env:"SESSION_STORE"`
		Secret     string `yaml:"secret" env:"SESSION_SECRET"`
		TTL        string `yaml:"ttl" env:"SESSION_TTL"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		Secure     bool   `yaml:"secure" env:"SESSION_SECURE"`
		Issuer     string `yaml:"issuer" env:"SESSION_ISSUER"`
	} `yaml:"session"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
	} `yaml:"redis"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env never overrides variables that are already exported
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.PublicURL = "http://localhost:8080"
	config.Server.ShutdownTimeout = "10s"

	// Backend defaults
	config.Backend.BaseURL = "http://localhost:4000/api/v1"
	config.Backend.Timeout = "30s"

	// Upload defaults
	config.Upload.Driver = UploadLocal
	config.Upload.Preset = "final_year_projects"
	config.Upload.Timeout = "5m"
	config.Upload.LocalDir = "./uploads"
	config.Upload.LocalPath = "/uploads"

	// Session defaults
	config.Session.Store = StoreMemory
	config.Session.TTL = "24h"
	config.Session.CookieName = "fyp_session"
	config.Session.Issuer = "fypdash"

	// Redis defaults
	config.Redis.Addr = "localhost:6379"
	config.Redis.Prefix = "fypdash:session:"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "fypdash"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base url is required")
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	switch config.Session.Store {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("unknown session store %q", config.Session.Store)
	}

	switch config.Upload.Driver {
	case UploadLocal:
	case UploadRemote:
		if config.Upload.URL == "" {
			return fmt.Errorf("upload url is required for the remote upload driver")
		}
	default:
		return fmt.Errorf("unknown upload driver %q", config.Upload.Driver)
	}

	durations := map[string]string{
		"server shutdown timeout": config.Server.ShutdownTimeout,
		"backend timeout":         config.Backend.Timeout,
		"upload timeout":          config.Upload.Timeout,
		"session ttl":             config.Session.TTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// BackendTimeout returns the parsed backend request timeout
func (c *Config) BackendTimeout() time.Duration {
	return helpers.ParseDuration(c.Backend.Timeout, 30*time.Second)
}

// UploadTimeout returns the parsed media host timeout
func (c *Config) UploadTimeout() time.Duration {
	return helpers.ParseDuration(c.Upload.Timeout, 5*time.Minute)
}

// SessionTTL returns the parsed session lifetime
func (c *Config) SessionTTL() time.Duration {
	return helpers.ParseDuration(c.Session.TTL, 24*time.Hour)
}

// ShutdownTimeout returns the parsed graceful shutdown timeout
func (c *Config) ShutdownTimeout() time.Duration {
	return helpers.ParseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
