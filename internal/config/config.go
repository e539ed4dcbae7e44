// Package config loads application settings from environment variables.
package config

import (
	"errors"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds everything the process needs at startup. It is constructed
// once in main and passed down explicitly; nothing reads the environment
// after Load returns.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUsername string
	DBPassword string
	DBDatabase string

	// SessionSecret signs the session cookie. Required.
	SessionSecret string

	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUsername:    getEnv("DB_USERNAME", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBDatabase:    getEnv("DB_DATABASE", "taskmanager"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CORSAllowedOrigins: []string{
			getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must be set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
