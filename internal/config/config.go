package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

// Config carries everything the process reads from the environment.
type Config struct {
	Port        int
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	CORSOrigins []string
}

// Load reads the configuration from the environment (.env is auto-loaded).
// Database settings are required; the HTTP port defaults to 8080.
func Load() (*Config, error) {
	cfg := &Config{Port: 8080}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}

	cfg.DBHost = os.Getenv("DB_HOST")
	if cfg.DBHost == "" {
		return nil, fmt.Errorf("DB_HOST environment variable is required")
	}
	rawPort := os.Getenv("DB_PORT")
	if rawPort == "" {
		return nil, fmt.Errorf("DB_PORT environment variable is required")
	}
	dbPort, err := strconv.Atoi(rawPort)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT %q: %w", rawPort, err)
	}
	cfg.DBPort = dbPort

	cfg.DBUser = os.Getenv("DB_USERNAME")
	if cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USERNAME environment variable is required")
	}
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is required")
	}

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}
