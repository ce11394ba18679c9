package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix namespaces environment variables. Every key is also read without
// the prefix, so both FSBRIDGE_SERVER_PORT and PORT set the listen port.
const EnvPrefix = "FSBRIDGE"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	GRPC       GRPCConfig       `yaml:"grpc" toml:"grpc"`
	Filesystem FilesystemConfig `yaml:"filesystem" toml:"filesystem"`
	Logging    LogConfig        `yaml:"logging" toml:"logging"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" toml:"rate_limit"`
	CORS       CORSConfig       `yaml:"cors" toml:"cors"`
	WebSocket  WebSocketConfig  `yaml:"websocket" toml:"websocket"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host                   string `envconfig:"HOST" yaml:"host" toml:"host"`
	Port                   string `envconfig:"PORT" yaml:"port" toml:"port"`
	ShutdownTimeoutSeconds int    `envconfig:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`
	MaxBodyBytes           int64  `envconfig:"MAX_BODY_BYTES" yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// GRPCConfig holds the optional gRPC listener configuration.
type GRPCConfig struct {
	Enabled bool   `envconfig:"GRPC_ENABLED" yaml:"enabled" toml:"enabled"`
	Port    string `envconfig:"GRPC_PORT" yaml:"port" toml:"port"`
}

// FilesystemConfig holds filesystem bridge options.
type FilesystemConfig struct {
	AtomicWrites bool `envconfig:"FS_ATOMIC_WRITES" yaml:"atomic_writes" toml:"atomic_writes"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" yaml:"allow_origins" toml:"allow_origins"`
}

// WebSocketConfig holds streaming transport configuration.
type WebSocketConfig struct {
	MaxInFlight int `envconfig:"WS_MAX_INFLIGHT" yaml:"max_inflight" toml:"max_inflight"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "127.0.0.1",
			Port:                   "8765",
			ShutdownTimeoutSeconds: 10,
			MaxBodyBytes:           64 << 20,
		},
		GRPC: GRPCConfig{
			Enabled: false,
			Port:    "8766",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 500,
			Burst:             1000,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		WebSocket: WebSocketConfig{
			MaxInFlight: 16,
		},
	}
}

// Load builds configuration from defaults, then the optional file at path,
// then a .env file in the working directory, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// Variables already set in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or returns defaults on error.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can be used to start a server.
func (c *Config) Validate() error {
	if err := validatePort("server port", c.Server.Port); err != nil {
		return err
	}
	if c.GRPC.Enabled {
		if err := validatePort("grpc port", c.GRPC.Port); err != nil {
			return err
		}
		if c.GRPC.Port == c.Server.Port {
			return fmt.Errorf("grpc port %s collides with server port", c.GRPC.Port)
		}
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %d", c.Server.ShutdownTimeoutSeconds)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit requires positive rps and burst, got %d/%d",
			c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	if c.WebSocket.MaxInFlight <= 0 {
		return fmt.Errorf("websocket max in-flight must be positive, got %d", c.WebSocket.MaxInFlight)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GRPCAddr returns the gRPC listen address.
func (c *Config) GRPCAddr() string {
	return c.Server.Host + ":" + c.GRPC.Port
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func validatePort(name, port string) error {
	if port == "" {
		return fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s %q is not a valid port", name, port)
	}
	return nil
}
