// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// NASA API
	NasaAPIKey string

	// Database（未設定の場合はお気に入り機能を無効化して起動する）
	DatabaseURL string

	// Fetch
	FetchTimeout time.Duration
	CacheTTL     time.Duration

	// Share card
	CardImageTimeout time.Duration
	CardImageMaxSize int64

	// Rate Limit（req/min単位）
	RateLimitGeneral int
	RateLimitCard    int

	// Server
	ServerPort string
	BaseURL    string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須の環境変数はない。DATABASE_URLが未設定の場合もエラーにはせず、
// お気に入り機能を無効化したまま起動できるようにする。
// NASA_API_KEYが未設定の場合はレート制限の厳しいDEMO_KEYにフォールバックする。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.NasaAPIKey = getEnvString("NASA_API_KEY", "DEMO_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 8*time.Second)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", time.Hour)

	cfg.CardImageTimeout = getEnvDuration("CARD_IMAGE_TIMEOUT", 15*time.Second)
	cfg.CardImageMaxSize = getEnvInt64("CARD_IMAGE_MAX_SIZE", 10*1024*1024)

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitCard = getEnvInt("RATE_LIMIT_CARD", 10)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// FavoritesEnabled はお気に入り永続化が設定されているかを返す。
func (c *Config) FavoritesEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
