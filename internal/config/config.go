package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	App    AppConfig
	Store  StoreConfig
	Cache  CacheConfig
	Stock  StockConfig
	Hooks  HookConfig
	Auth   AuthConfig
}

// AuthConfig holds the API keys machine callers and the session gateway use.
type AuthConfig struct {
	APIKeys []string `envconfig:"API_KEYS" default:""`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"resellhub-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StoreConfig selects and configures the SQL store backend.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"sqlite"` // sqlite or mysql

	// SQLite settings
	Path string `envconfig:"STORE_SQLITE_PATH" default:"./data/resellhub.db"`

	// MySQL settings
	Host     string `envconfig:"STORE_MYSQL_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_MYSQL_PORT" default:"3306"`
	Name     string `envconfig:"STORE_MYSQL_NAME" default:"resellhub"`
	User     string `envconfig:"STORE_MYSQL_USER" default:"root"`
	Password string `envconfig:"STORE_MYSQL_PASS" default:""`
}

// CacheConfig holds Redis settings for sessions and the lookup cache.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StockConfig holds allocation and expiry sweep settings.
type StockConfig struct {
	// LowStockThreshold triggers a supervisor notification when the available
	// profile count for a product drops below it after an allocation.
	LowStockThreshold int `envconfig:"LOW_STOCK_THRESHOLD" default:"3"`

	// ExpiryWindowDays is the default lookahead for expiry warnings.
	ExpiryWindowDays int `envconfig:"EXPIRY_WINDOW_DAYS" default:"3"`

	// ExpirySweepInterval is how often the background sweep runs.
	ExpirySweepInterval time.Duration `envconfig:"EXPIRY_SWEEP_INTERVAL" default:"24h"`
}

// HookConfig holds outbound integration settings.
type HookConfig struct {
	WebhookURL     string        `envconfig:"WEBHOOK_URL" default:""`
	WebhookTimeout time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		s.User, s.Password, s.Host, s.Port, s.Name)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
