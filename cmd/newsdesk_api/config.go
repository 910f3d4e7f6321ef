package main

import (
	"errors"
	"os"
	"time"
)

// AppConfig is the environment-driven application configuration, read
// after the server config so both share the same .env file.
type AppConfig struct {
	DatabaseURL string

	GeminiAPIKey string
	GeminiModel  string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	NewsSearchURL string
	NewsSearchKey string
	FeedSources   string

	S3Bucket  string
	S3Region  string
	S3Enabled bool
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		NewsSearchURL:    getEnv("NEWS_SEARCH_URL", "https://serpapi.com/search"),
		NewsSearchKey:    os.Getenv("NEWS_SEARCH_API_KEY"),
		FeedSources:      getEnv("FEED_SOURCES_PATH", "config/feeds.yaml"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         getEnv("AWS_REGION", "ap-south-1"),
	}
	cfg.S3Enabled = cfg.S3Bucket != ""

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, errors.New("JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
