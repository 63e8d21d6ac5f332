package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Security      SecurityConfig      `mapstructure:"security"`
	Admin         AdminConfig         `mapstructure:"admin"`
	Refresh       RefreshConfig       `mapstructure:"refresh"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
	StorageDriverMemory   = "memory"
)

type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	Source        string `mapstructure:"source"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	AutoMigrate   bool   `mapstructure:"auto_migrate"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
	MaxIdleConns  int    `mapstructure:"max_idle_conns"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

const (
	PasswordSchemePlaintext = "plaintext"
	PasswordSchemeBcrypt    = "bcrypt"
)

type SecurityConfig struct {
	JWTAccessSecret      string        `mapstructure:"jwt_access_secret"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	PasswordScheme       string        `mapstructure:"password_scheme"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
}

// AdminConfig holds the credentials of the account seeded on first run.
type AdminConfig struct {
	Name       string `mapstructure:"name"`
	Email      string `mapstructure:"email"`
	Password   string `mapstructure:"password"`
	Department string `mapstructure:"department"`
}

type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// ApplyDefaults fills every zero value that has a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverSQLite
	}
	if c.Storage.Source == "" && c.Storage.Driver == StorageDriverSQLite {
		c.Storage.Source = "data/attendance.db"
	}
	if c.Storage.MaxOpenConns == 0 {
		c.Storage.MaxOpenConns = 5
	}
	if c.Storage.MaxIdleConns == 0 {
		c.Storage.MaxIdleConns = c.Storage.MaxOpenConns
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = "127.0.0.1:6379"
	}
	if c.Security.AccessTokenDuration == 0 {
		c.Security.AccessTokenDuration = 15 * time.Minute
	}
	if c.Security.RefreshTokenDuration == 0 {
		c.Security.RefreshTokenDuration = 7 * 24 * time.Hour
	}
	if c.Security.PasswordScheme == "" {
		c.Security.PasswordScheme = PasswordSchemeBcrypt
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Admin.Name == "" {
		c.Admin.Name = "Admin"
	}
	if c.Admin.Email == "" {
		c.Admin.Email = "admin@divron.com"
	}
	if c.Admin.Password == "" {
		c.Admin.Password = "admin123"
	}
	if c.Admin.Department == "" {
		c.Admin.Department = "Administration"
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 30 * time.Second
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds the configuration purely from environment
// variables, for container deployments without a config file.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 8080),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
			ReadTimeout:    getEnvAsDuration("HTTP_READ_TIMEOUT", 0),
			WriteTimeout:   getEnvAsDuration("HTTP_WRITE_TIMEOUT", 0),
			IdleTimeout:    getEnvAsDuration("HTTP_IDLE_TIMEOUT", 0),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", ""),
			Source:        getEnv("STORAGE_SOURCE", ""),
			KeyPrefix:     getEnv("STORAGE_KEY_PREFIX", ""),
			AutoMigrate:   getEnvAsBool("STORAGE_AUTO_MIGRATE", true),
			MaxOpenConns:  getEnvAsInt("STORAGE_MAX_OPEN_CONNS", 0),
			MaxIdleConns:  getEnvAsInt("STORAGE_MAX_IDLE_CONNS", 0),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Security: SecurityConfig{
			JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
			JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 0),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 0),
			PasswordScheme:       getEnv("PASSWORD_SCHEME", ""),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 0),
		},
		Admin: AdminConfig{
			Name:       getEnv("ADMIN_NAME", ""),
			Email:      getEnv("ADMIN_EMAIL", ""),
			Password:   getEnv("ADMIN_PASSWORD", ""),
			Department: getEnv("ADMIN_DEPARTMENT", ""),
		},
		Refresh: RefreshConfig{
			Interval: getEnvAsDuration("REFRESH_INTERVAL", 0),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", true),
				Path:    getEnv("METRICS_PATH", ""),
			},
			Logging: LoggingConfig{
				Level: getEnv("LOG_LEVEL", ""),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Admin.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("admin config: %v", err))
	}

	if c.Refresh.Interval < time.Second {
		errs = append(errs, "refresh config: interval must be at least 1s")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		for _, origin := range strings.Split(c.AllowedOrigins, ",") {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverSQLite, StorageDriverPostgres:
		if c.Source == "" {
			return fmt.Errorf("source is required for driver %s", c.Driver)
		}
		if c.MaxIdleConns > c.MaxOpenConns {
			return errors.New("max_idle_conns cannot be greater than max_open_conns")
		}
	case StorageDriverRedis:
		if c.RedisAddr == "" {
			return errors.New("redis_addr is required for driver redis")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	return nil
}

// Validate checks the settings every command needs. Token secrets are only
// required by the HTTP server, see ValidateTokens.
func (c *SecurityConfig) Validate() error {
	if c.AccessTokenDuration >= c.RefreshTokenDuration {
		return errors.New("access_token_duration must be shorter than refresh_token_duration")
	}
	switch c.PasswordScheme {
	case PasswordSchemePlaintext:
	case PasswordSchemeBcrypt:
		if c.BCryptCost < 4 || c.BCryptCost > 31 {
			return fmt.Errorf("bcrypt_cost %d out of range", c.BCryptCost)
		}
	default:
		return fmt.Errorf("unknown password_scheme %q", c.PasswordScheme)
	}
	return nil
}

func (c *SecurityConfig) ValidateTokens() error {
	if len(c.JWTAccessSecret) < 32 {
		return errors.New("jwt_access_secret must be at least 32 characters")
	}
	if len(c.JWTRefreshSecret) < 32 {
		return errors.New("jwt_refresh_secret must be at least 32 characters")
	}
	return nil
}

func (c *AdminConfig) Validate() error {
	if c.Email == "" || c.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}
