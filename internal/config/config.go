package config

import (
	"errors"
	"os"
)

type Config struct {
	ListenAddr string
	BackendURL string
	DBPath     string
}

func LoadFromEnv() Config {
	return Config{
		ListenAddr: envOr("PANEL_ADDR", ":8080"),
		BackendURL: os.Getenv("BACKEND_API_URL"),
		DBPath:     envOr("PANEL_DB_PATH", "panel.db"),
	}
}

func (c Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("BACKEND_API_URL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
