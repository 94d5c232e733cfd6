// Package config loads service configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host         string `yaml:"host" env:"SERVER_HOST"`
	Port         int    `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout  int    `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout int    `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
}

// DatabaseConfig controls the relational store.
type DatabaseConfig struct {
	Driver          string `yaml:"driver" env:"DATABASE_DRIVER"`
	DSN             string `yaml:"dsn" env:"DATABASE_DSN"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME"`
	MigrationsPath  string `yaml:"migrations_path" env:"DATABASE_MIGRATIONS_PATH"`
}

// RedisConfig controls the estimator cache store.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// AuthConfig carries the shared token secret. There is exactly one signer
// (authd) and N verifiers; every service must receive the same injected value.
type AuthConfig struct {
	Secret       string `yaml:"secret" env:"JWT_SECRET"`
	TokenTTLMins int    `yaml:"token_ttl_minutes" env:"JWT_TOKEN_TTL_MINUTES"`
}

// AIConfig controls the external nutrition provider.
type AIConfig struct {
	APIKey         string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL        string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Model          string `yaml:"model" env:"OPENAI_MODEL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"OPENAI_TIMEOUT_SECONDS"`
}

// VideosConfig controls the exercise video lookup helper.
type VideosConfig struct {
	APIKey  string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	BaseURL string `yaml:"base_url" env:"YOUTUBE_BASE_URL"`
}

// ServicesConfig lists peer service endpoints.
type ServicesConfig struct {
	AuthURL string `yaml:"auth_url" env:"AUTH_SERVICE_URL"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// RateLimitConfig controls per-subject request throttling.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	Burst             int `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

// Config is the root configuration shared by all service binaries.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	AI        AIConfig        `yaml:"ai"`
	Videos    VideosConfig    `yaml:"videos"`
	Services  ServicesConfig  `yaml:"services"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// Default returns the baseline configuration applied before file and
// environment overrides.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 15
	cfg.Server.WriteTimeout = 30
	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 300
	cfg.Redis.Addr = "localhost:6379"
	cfg.Auth.TokenTTLMins = 60
	cfg.AI.BaseURL = "https://api.openai.com/v1"
	cfg.AI.Model = "gpt-4o-mini"
	cfg.AI.TimeoutSeconds = 30
	cfg.Videos.BaseURL = "https://www.googleapis.com/youtube/v3/search"
	cfg.Services.AuthURL = "http://localhost:8001"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.RateLimit.RequestsPerSecond = 50
	cfg.RateLimit.Burst = 100
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	return cfg
}

// Load reads configuration in three layers: defaults, an optional YAML file
// pointed to by CONFIG_PATH, then environment variables.
func Load() (*Config, error) {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := envdecode.Decode(cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMins) * time.Minute
}

// AITimeout returns the configured AI call timeout.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}
