package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// 環境変数なしでもエラーにならない
	for _, key := range []string{
		"NASA_API_KEY", "DATABASE_URL", "FETCH_TIMEOUT", "CACHE_TTL",
		"RATE_LIMIT_GENERAL", "RATE_LIMIT_CARD", "SERVER_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.NasaAPIKey != "DEMO_KEY" {
		t.Errorf("NasaAPIKey = %q, want DEMO_KEY", cfg.NasaAPIKey)
	}
	if cfg.FetchTimeout != 8*time.Second {
		t.Errorf("FetchTimeout = %v, want 8s", cfg.FetchTimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
	}
	if cfg.RateLimitCard != 10 {
		t.Errorf("RateLimitCard = %d, want 10", cfg.RateLimitCard)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NASA_API_KEY", "real-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/skygazer")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("RATE_LIMIT_GENERAL", "60")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.NasaAPIKey != "real-key" {
		t.Errorf("NasaAPIKey = %q, want real-key", cfg.NasaAPIKey)
	}
	if cfg.DatabaseURL != "postgres://localhost/skygazer" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("FetchTimeout = %v, want 3s", cfg.FetchTimeout)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v, want 30m", cfg.CacheTTL)
	}
	if cfg.RateLimitGeneral != 60 {
		t.Errorf("RateLimitGeneral = %d, want 60", cfg.RateLimitGeneral)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")
	t.Setenv("RATE_LIMIT_GENERAL", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.FetchTimeout != 8*time.Second {
		t.Errorf("FetchTimeout = %v, want 8s（不正値はデフォルト）", cfg.FetchTimeout)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120（不正値はデフォルト）", cfg.RateLimitGeneral)
	}
}

func TestFavoritesEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.FavoritesEnabled() {
		t.Error("FavoritesEnabled() = true, want false（DATABASE_URL未設定）")
	}

	cfg.DatabaseURL = "postgres://localhost/skygazer"
	if !cfg.FavoritesEnabled() {
		t.Error("FavoritesEnabled() = false, want true")
	}
}
