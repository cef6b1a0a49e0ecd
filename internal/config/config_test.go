package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONSCIOUSNESS_ENV", "EPHE_PATH", "L1_CACHE_CAPACITY", "L1_CACHE_TTL",
		"L2_REDIS_ADDR", "L2_REDIS_TTL", "L3_ARCHIVE_DIR", "L3_POPULATE_CRON",
		"BRIDGE_BASE_URL", "BRIDGE_TIMEOUT", "REQUEST_TIMEOUT", "LOG_LEVEL",
		"LOG_FORMAT", "TEST_MODE", "METRICS_ENABLED", "METRICS_PORT",
	} {
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Env != Development {
		t.Fatalf("expected development env by default, got %s", cfg.Env)
	}
	if cfg.L1Capacity != 10000 {
		t.Fatalf("expected default L1 capacity 10000, got %d", cfg.L1Capacity)
	}
	if cfg.BridgeTimeout.String() != "30s" {
		t.Fatalf("expected default bridge timeout 30s, got %s", cfg.BridgeTimeout)
	}
}

func TestLoadInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	os.Setenv("CONSCIOUSNESS_ENV", "staging")
	defer os.Unsetenv("CONSCIOUSNESS_ENV")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid environment")
	}
}

func TestLoadRejectsNonPositiveL1Capacity(t *testing.T) {
	clearEnv(t)
	os.Setenv("L1_CACHE_CAPACITY", "0")
	defer os.Unsetenv("L1_CACHE_CAPACITY")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for non-positive L1 capacity")
	}
}

func TestValidateRejectsTestModeInProduction(t *testing.T) {
	cfg := &Config{
		Env:            Production,
		L1Capacity:     100,
		RequestTimeout: 1,
		BridgeTimeout:  1,
		TestMode:       true,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for TestMode in production")
	}
}

func TestIsHelpers(t *testing.T) {
	cfg := &Config{Env: Testing}
	if !cfg.IsTesting() || cfg.IsDevelopment() || cfg.IsProduction() {
		t.Fatalf("environment predicate mismatch for %s", cfg.Env)
	}
}
