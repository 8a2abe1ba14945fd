package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at
// startup and passed by reference into the services and handlers.
type Config struct {
	// Server configuration
	ServerPort string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Vision API configuration. An empty APIKey is a valid state: the
	// analyzer runs in stub mode without it.
	VisionAPIURL string
	VisionAPIKey string
}

// Load creates a new Config instance with values from environment
// variables. A .env file is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	// DatabaseName carries no default so the /test diagnostic can report
	// whether it was actually configured; the connect call site falls back.
	return &Config{
		ServerPort:   getEnv("PORT", "8000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		VisionAPIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		VisionAPIKey: os.Getenv("OPENAI_API_KEY"),
	}
}

// HasDatabase reports whether a storage connection is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
