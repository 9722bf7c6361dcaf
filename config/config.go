package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration, resolved once at startup and
// passed down explicitly. Nothing in the application reads the environment
// after Load returns.
type Config struct {
	Port          string
	DatabasePath  string
	Env           string
	SessionTTL    time.Duration
	StaticDir     string
	CORSOrigins   []string
	SecureCookies bool
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development.
func Load() Config {
	cfg := Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		DatabasePath: getEnvOrDefault("DB_PATH", "./finance.db"),
		Env:          getEnvOrDefault("ENV", "development"),
		StaticDir:    getEnvOrDefault("STATIC_DIR", "./static"),
		SessionTTL:   24 * time.Hour,
	}

	if hours := os.Getenv("SESSION_TTL_HOURS"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			cfg.SessionTTL = time.Duration(h) * time.Hour
		}
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	} else {
		cfg.CORSOrigins = []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://localhost:8080",
		}
	}

	// Session cookies go out Secure unless we're on plain-HTTP localhost.
	cfg.SecureCookies = cfg.IsProduction()

	return cfg
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
