package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort        int
	DatabasePath      string
	JWTSecret         string
	AllowedOrigin     string        // Frontend origin for CORS
	AdherenceInterval time.Duration // How often the background adherence snapshot runs
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is applied first, if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "5000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	interval, err := time.ParseDuration(getEnv("ADHERENCE_INTERVAL", "1m"))
	if err != nil {
		return nil, err
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:        port,
		DatabasePath:      getEnv("DATABASE_PATH", "./medicare.db"),
		JWTSecret:         secret,
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		AdherenceInterval: interval,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
