package config

import (
	"os"
	"strconv"
)

// Config holds server configuration loaded from environment variables
type Config struct {
	Port string

	// DatabaseURL selects the Postgres-backed repositories when set.
	// Empty means in-memory storage.
	DatabaseURL string

	CookieName     string
	CookieSecure   bool
	CookieSameSite string

	GeminiAPIKey      string
	VapiAPIKey        string
	VapiWebhookSecret string

	BcryptCost int
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CookieName:        getEnvOrDefault("COOKIE_NAME", "sid"),
		CookieSecure:      os.Getenv("COOKIE_SECURE") == "true",
		CookieSameSite:    getEnvOrDefault("COOKIE_SAMESITE", "lax"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		VapiAPIKey:        os.Getenv("VAPI_API_KEY"),
		VapiWebhookSecret: os.Getenv("VAPI_WEBHOOK_SECRET"),
		BcryptCost:        10,
	}

	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		if n, err := strconv.Atoi(cost); err == nil && n >= 4 && n <= 31 {
			cfg.BcryptCost = n
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
