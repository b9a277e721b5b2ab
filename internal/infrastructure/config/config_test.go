package config_test

import (
	"testing"
	"time"

	"github.com/iho/loanledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.OwnerID != "owner" {
		t.Fatalf("expected default owner id, got %q", cfg.OwnerID)
	}

	if cfg.DefaultInterestRate != 10 {
		t.Fatalf("expected default interest rate 10, got %d", cfg.DefaultInterestRate)
	}

	if cfg.VotingPeriod != 72*time.Hour {
		t.Fatalf("expected default voting period 72h, got %s", cfg.VotingPeriod)
	}

	if cfg.DatabaseURL != "" {
		t.Fatalf("expected archive disabled by default, got %q", cfg.DatabaseURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.EventStream != "loanledger:events" {
		t.Fatalf("expected default event stream name, got %s", cfg.EventStream)
	}

	if cfg.AuthEnabled {
		t.Fatal("expected auth disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OWNER_ID", "treasury")
	t.Setenv("DEFAULT_INTEREST_RATE", "7")
	t.Setenv("GOVERNANCE_VOTING_PERIOD", "1h")
	t.Setenv("LENDER_GATING_ENFORCED", "true")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("PUBLISHER_BATCH_SIZE", "25")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.OwnerID != "treasury" {
		t.Fatalf("expected owner override, got %s", cfg.OwnerID)
	}

	if cfg.DefaultInterestRate != 7 {
		t.Fatalf("expected interest rate override, got %d", cfg.DefaultInterestRate)
	}

	if cfg.VotingPeriod != time.Hour {
		t.Fatalf("expected voting period override, got %s", cfg.VotingPeriod)
	}

	if !cfg.LenderGating {
		t.Fatal("expected lender gating enabled")
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.PublisherBatchSize != 25 {
		t.Fatalf("expected publisher batch size override, got %d", cfg.PublisherBatchSize)
	}

	if cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected JWT secret override, got %s", cfg.JWTSecret)
	}

	if !cfg.AuthEnabled {
		t.Fatal("expected auth enabled")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("GOVERNANCE_VOTING_PERIOD", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
