package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `env:", prefix=SERVER_"`
	Redis     RedisConfig     `env:", prefix=REDIS_"`
	NATS      NATSConfig      `env:", prefix=NATS_"`
	Solver    SolverConfig    `env:", prefix=SOLVER_"`
	Arcs      ArcsConfig      `env:", prefix=ARCS_"`
	Nodes     NodesConfig     `env:", prefix=NODES_"`
	Security  SecurityConfig  `env:", prefix=SECURITY_"`
	Logging   LoggingConfig   `env:", prefix=LOG_"`
	Messaging MessagingConfig `env:", prefix=MESSAGING_"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `env:"HOST, default=0.0.0.0"`
	Port         int           `env:"PORT, default=8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT, default=120s"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled      bool          `env:"ENABLED, default=true"`
	Host         string        `env:"HOST, default=localhost"`
	Port         int           `env:"PORT, default=6379"`
	Password     string        `env:"PASSWORD"`
	DB           int           `env:"DB, default=0"`
	PoolSize     int           `env:"POOL_SIZE, default=10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS, default=5"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT, default=5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=3s"`
	ChartTTL     time.Duration `env:"CHART_TTL, default=10m"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL           string        `env:"URL, default=nats://localhost:4222"`
	MaxReconnect  int           `env:"MAX_RECONNECT, default=10"`
	ReconnectWait time.Duration `env:"RECONNECT_WAIT, default=2s"`
	DrainTimeout  time.Duration `env:"DRAIN_TIMEOUT, default=30s"`
}

// MessagingConfig holds feature flags for event publishing
type MessagingConfig struct {
	Enabled bool `env:"ENABLED, default=false"`
}

// SolverConfig holds horizon/meridian solver tuning
type SolverConfig struct {
	CoarseStepDeg float64 `env:"COARSE_STEP_DEG, default=5"`
	FineStepDeg   float64 `env:"FINE_STEP_DEG, default=1"`
	RootTolerance float64 `env:"ROOT_TOLERANCE, default=0.000001"`
	MaxIterations int     `env:"MAX_ITERATIONS, default=40"`
}

// ArcsConfig holds constellation arc table configuration
type ArcsConfig struct {
	SampleStepDeg float64 `env:"SAMPLE_STEP_DEG, default=0.1"`
	// ReferenceEpoch keys the persisted table; the arcs depend only on the
	// fixed coordinate frames, never on request state.
	ReferenceEpoch string `env:"REFERENCE_EPOCH, default=J2000"`
}

// NodesConfig holds lunar node configuration
type NodesConfig struct {
	// RahuIsDescending selects which physical node is labeled Rahu. The
	// server default keeps Rahu on the ascending node; a request-level flag
	// takes precedence over this value.
	RahuIsDescending bool `env:"RAHU_IS_DESCENDING, default=false"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	CORSEnabled bool     `env:"CORS_ENABLED, default=true"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`
	CORSMethods []string `env:"CORS_METHODS, default=GET,POST,OPTIONS"`
	CORSHeaders []string `env:"CORS_HEADERS, default=*"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LEVEL, default=info"`
	Format string `env:"FORMAT, default=json"`
	Output string `env:"OUTPUT, default=stdout"`
}

// Load loads configuration from environment variables using go-envconfig
func Load() (*Config, error) {
	ctx := context.Background()
	var cfg Config

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("Redis host is required when Redis is enabled")
	}

	if c.Messaging.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("NATS URL is required when messaging is enabled")
	}

	if c.Solver.CoarseStepDeg <= 0 || c.Solver.FineStepDeg <= 0 {
		return fmt.Errorf("solver scan steps must be positive")
	}

	if c.Arcs.SampleStepDeg <= 0 || c.Arcs.SampleStepDeg > 1 {
		return fmt.Errorf("invalid arc sample step: %f", c.Arcs.SampleStepDeg)
	}

	return nil
}

// GetRedisAddr returns Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
