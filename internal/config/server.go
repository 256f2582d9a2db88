// Package config provides environment-driven configuration for the mock-interview server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds the process-level settings read from the environment.
type ServerConfig struct {
	Port          int
	AllowedOrigin string
	GeminiAPIKey  string // empty means the AI collaborator serves deterministic fallback content
	DatabaseURL   string // empty means the in-memory store is used
}

// NewServerConfig creates a server configuration from environment variables.
// It reads PORT (default: 8080), ALLOWED_ORIGIN (default: http://localhost:5173),
// GEMINI_API_KEY (optional) and DATABASE_URL (optional).
func NewServerConfig() (*ServerConfig, error) {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", port)
	}

	origin := os.Getenv("ALLOWED_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	return &ServerConfig{
		Port:          port,
		AllowedOrigin: origin,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}, nil
}
