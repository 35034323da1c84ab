// Package config loads service configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Shivanand-hulikatti/activity-board/internal/logging"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all configuration for the activity board.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	API     APIConfig      `yaml:"api"`
	Storage StorageConfig  `yaml:"storage"`
	Board   BoardConfig    `yaml:"board"`
	Logging logging.Config `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// APIConfig points the board's client at an activities API.
// An empty BaseURL means this process's own API. A zero Timeout leaves
// requests unbounded.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects and configures the activities store.
type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	SeedFile string         `yaml:"seed_file"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// PostgresConfig holds PostgreSQL settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
}

// RedisConfig holds Redis settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BoardConfig tunes the server-rendered board.
type BoardConfig struct {
	Title string `yaml:"title"`
	// MessageTimeout hides the status message after it elapses. Zero keeps
	// each message up until the next one.
	MessageTimeout  time.Duration `yaml:"message_timeout"`
	SessionIdle     time.Duration `yaml:"session_idle"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// Default returns the settings whose zero value is meaningful, so a file
// or environment variable can still set them to zero.
func Default() *Config {
	return &Config{
		Board: BoardConfig{MessageTimeout: 5 * time.Second},
	}
}

// Load reads path (if non-empty) over Default, applies environment
// overrides, fills in defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
	c.API.BaseURL = getEnv("API_BASE_URL", c.API.BaseURL)
	c.API.Timeout = getEnvAsDuration("API_TIMEOUT", c.API.Timeout)
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.SeedFile = getEnv("SEED_FILE", c.Storage.SeedFile)
	c.Storage.Postgres.DSN = getEnv("DATABASE_DSN", c.Storage.Postgres.DSN)
	c.Storage.Redis.Address = getEnv("REDIS_ADDRESS", c.Storage.Redis.Address)
	c.Storage.Redis.Password = getEnv("REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.Redis.DB = getEnvAsInt("REDIS_DB", c.Storage.Redis.DB)
	c.Board.MessageTimeout = getEnvAsDuration("MESSAGE_TIMEOUT", c.Board.MessageTimeout)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// SetDefaults fills unset optional fields.
func (c *Config) SetDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.Storage.Redis.Address == "" {
		c.Storage.Redis.Address = "localhost:6379"
	}
	if c.Board.Title == "" {
		c.Board.Title = "Mergington High School"
	}
	if c.Board.SessionIdle == 0 {
		c.Board.SessionIdle = 30 * time.Minute
	}
	if c.Board.CleanupInterval == 0 {
		c.Board.CleanupInterval = 5 * time.Minute
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	case DriverPostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("postgres DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if c.Board.MessageTimeout < 0 {
		return fmt.Errorf("message timeout must not be negative")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// APIBaseURL returns where the board should send API calls.
func (c *Config) APIBaseURL() string {
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
