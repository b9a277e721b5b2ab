package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Ledger
	OwnerID             string        `env:"OWNER_ID"                 envDefault:"owner"`
	DefaultInterestRate int64         `env:"DEFAULT_INTEREST_RATE"    envDefault:"10"`
	VotingPeriod        time.Duration `env:"GOVERNANCE_VOTING_PERIOD" envDefault:"72h"`
	LenderGating        bool          `env:"LENDER_GATING_ENFORCED"   envDefault:"false"`

	// Event archive (optional - leave DATABASE_URL empty to disable)
	DatabaseURL      string        `env:"DATABASE_URL"       envDefault:""`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"2"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`

	// Redis (optional - leave empty to disable idempotency and the stream feed)
	RedisURL    string `env:"REDIS_URL"    envDefault:""`
	EventStream string `env:"EVENT_STREAM" envDefault:"loanledger:events"`

	// Event publisher
	PublisherBatchSize int           `env:"PUBLISHER_BATCH_SIZE" envDefault:"100"`
	PublisherInterval  time.Duration `env:"PUBLISHER_INTERVAL"   envDefault:"2s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Rate limiting
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"50"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST"      envDefault:"100"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Authentication (optional - leave empty to disable)
	JWTSecret     string        `env:"JWT_SECRET"     envDefault:""`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	AuthEnabled   bool          `env:"AUTH_ENABLED"   envDefault:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
