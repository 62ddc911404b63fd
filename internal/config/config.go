package config

import (
	"errors"
	"os"
	"strings"
)

// app config, loaded once at startup
type Config struct {
	Port        string
	DatabaseURL string
	// RedisURL is optional; without it lifecycle events and notifications
	// are disabled.
	RedisURL      string
	JWTSecret     string
	PublicSiteURL string
	// DefaultSports seed the sports table on first boot.
	DefaultSports []string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PublicSiteURL: getEnvOrDefault("PUBLIC_SITE_URL", "http://localhost:3000"),
		DefaultSports: splitList(getEnvOrDefault("DEFAULT_SPORTS", "Tennis,Squash,Badminton,Table Tennis")),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if config.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
