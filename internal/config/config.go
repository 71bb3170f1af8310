package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the app.
type Config struct {
	DatabaseURL    string
	ReminderWindow time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReminderWindow: 0,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "cwtshtodo.db"
	}

	raw := strings.TrimSpace(os.Getenv("REMINDER_WINDOW"))
	if raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil || window <= 0 {
			return cfg, fmt.Errorf("invalid REMINDER_WINDOW %q", raw)
		}
		cfg.ReminderWindow = window
	}
	if cfg.ReminderWindow == 0 {
		cfg.ReminderWindow = time.Minute
	}

	return cfg, nil
}
