// Package config loads application configuration from the environment once
// at startup. The resulting Config is passed explicitly to every component
// that needs it; nothing reads ambient environment state after boot.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string
	JWTExpiry time.Duration

	// CORS
	CORSOrigin string

	// Market data
	RedisAddr    string
	QuoteAPIKey  string
	QuoteBaseURL string
}

// Load builds a Config from environment variables, reading a .env file first
// if one exists. DATABASE_URL is mandatory; startup fails without it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		QuoteAPIKey:  os.Getenv("QUOTE_API_KEY"),
		QuoteBaseURL: getEnv("QUOTE_BASE_URL", "https://www.alphavantage.co"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	cfg.JWTExpiry = expDur

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
