package config

import (
	"fmt"
	"os"
)

// DefaultJWTSecret is the development fallback signing key. Token issuance
// and token validation must resolve to the same value, so every consumer
// goes through this constant.
const DefaultJWTSecret = "default-secret-key-change-in-production-min-32-chars"

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type Config struct {
	Repositories     RepositoriesConfig
	ServerPort       string
	GeminiAPIKey     string
	GoogleMapsAPIKey string
	JWTSecretKey     string
	SessionSecret    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "sanchari"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		ServerPort:       getEnvOrDefault("SERVER_PORT", "8080"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		JWTSecretKey:     getEnvOrDefault("JWT_SECRET_KEY", DefaultJWTSecret),
		SessionSecret:    getEnvOrDefault("SESSION_SECRET", "change-me-in-production"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
