package config

import (
	"log/slog"
	"os"
)

// Missing lists the required keys that are empty in cfg.
func (c Config) Missing(keys ...string) []string {
	var missing []string
	for _, k := range keys {
		switch k {
		case "DATABASE_URL":
			if c.DatabaseURL == "" {
				missing = append(missing, k)
			}
		case "JWT_SECRET":
			if len(c.JWTAccessSecret) == 0 {
				missing = append(missing, k)
			}
		}
	}
	return missing
}

// MustHave logs every missing required key and exits.
func MustHave(log *slog.Logger, cfg Config, keys ...string) {
	missing := cfg.Missing(keys...)
	if len(missing) == 0 {
		return
	}
	for _, k := range missing {
		log.Error("missing_required_env", "env", k)
	}
	os.Exit(1)
}
