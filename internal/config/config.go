// Package config provides environment-aware configuration management for
// the calculation core (spec §6 "Environment variables honored by the
// core"). Configuration errors are fatal at startup and never surface to a
// caller (spec §7).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
)

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment validates a raw environment string.
func ParseEnvironment(s string) (Environment, bool) {
	switch Environment(strings.ToLower(s)) {
	case Development:
		return Development, true
	case Testing:
		return Testing, true
	case Production:
		return Production, true
	default:
		return "", false
	}
}

// Config holds all core configuration.
type Config struct {
	Env Environment

	// Ephemeris (spec §4.1 "Ephemeris data files")
	EphePath string

	// L1 in-process cache (spec §4.2)
	L1Capacity int
	L1TTL      time.Duration

	// L2 distributed cache (spec §4.2)
	L2RedisAddr string
	L2TTL       time.Duration

	// L3 disk archive (spec §4.2)
	L3ArchiveDir   string
	L3PopulateCron string

	// Bridge adapter (spec §4.9)
	BridgeBaseURL string
	BridgeTimeout time.Duration

	// Request-level timeout (spec §5)
	RequestTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Features
	TestMode       bool
	MetricsEnabled bool
	MetricsPort    int
}

// Load loads configuration based on the CONSCIOUSNESS_ENV environment
// variable, optionally overlaying a config/<env>.env file.
func Load() (*Config, error) {
	envStr := os.Getenv("CONSCIOUSNESS_ENV")
	if envStr == "" {
		envStr = string(Development)
	}

	env, ok := ParseEnvironment(envStr)
	if !ok {
		return nil, apierrors.NewConfigError(fmt.Sprintf("invalid CONSCIOUSNESS_ENV: %s (must be development, testing, or production)", envStr))
	}

	configFile := filepath.Join("config", fmt.Sprintf("%s.env", env))
	if err := godotenv.Load(configFile); err != nil {
		// The file is optional; only a parse error (not "file not found") is
		// worth noting, and even then it must not be fatal.
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("warning: could not load %s: %v\n", configFile, err)
		}
	}

	cfg := &Config{Env: env}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, apierrors.NewConfigError(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, apierrors.NewConfigError(err.Error())
	}

	return cfg, nil
}

func (c *Config) loadFromEnv() error {
	c.EphePath = getEnv("EPHE_PATH", "")

	c.L1Capacity = getIntEnv("L1_CACHE_CAPACITY", 10000)
	c.L1TTL = getDurationEnv("L1_CACHE_TTL", 0) // read but not applied: ThreeLayer.Store gives L1 entries the same default TTL as L2 (L2TTL)

	c.L2RedisAddr = getEnv("L2_REDIS_ADDR", "")
	l2ttl, err := parseDuration(getEnv("L2_REDIS_TTL", "15m"))
	if err != nil {
		return fmt.Errorf("invalid L2_REDIS_TTL: %w", err)
	}
	c.L2TTL = l2ttl

	c.L3ArchiveDir = getEnv("L3_ARCHIVE_DIR", "./data/archive")
	c.L3PopulateCron = getEnv("L3_POPULATE_CRON", "0 3 * * *")

	c.BridgeBaseURL = getEnv("BRIDGE_BASE_URL", "")
	bridgeTimeout, err := parseDuration(getEnv("BRIDGE_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("invalid BRIDGE_TIMEOUT: %w", err)
	}
	c.BridgeTimeout = bridgeTimeout

	reqTimeout, err := parseDuration(getEnv("REQUEST_TIMEOUT", "20s"))
	if err != nil {
		return fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	c.RequestTimeout = reqTimeout

	c.LogLevel = getEnv("LOG_LEVEL", "info")
	c.LogFormat = getEnv("LOG_FORMAT", "json")

	c.TestMode = getBoolEnv("TEST_MODE", false)
	c.MetricsEnabled = getBoolEnv("METRICS_ENABLED", c.Env == Production)
	c.MetricsPort = getIntEnv("METRICS_PORT", 9090)

	return nil
}

// IsDevelopment reports whether the environment is development.
func (c *Config) IsDevelopment() bool { return c.Env == Development }

// IsTesting reports whether the environment is testing.
func (c *Config) IsTesting() bool { return c.Env == Testing }

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool { return c.Env == Production }

// Validate checks invariants that must hold regardless of environment.
func (c *Config) Validate() error {
	if c.L1Capacity <= 0 {
		return fmt.Errorf("L1_CACHE_CAPACITY must be positive, got %d", c.L1Capacity)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.BridgeTimeout <= 0 {
		return fmt.Errorf("BRIDGE_TIMEOUT must be positive")
	}
	if c.IsProduction() && c.TestMode {
		return fmt.Errorf("TEST_MODE must be false in production")
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
