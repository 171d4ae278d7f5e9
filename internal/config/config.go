package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Web server
	WebBind string
	BaseURL string

	// Session
	JWTSecret string

	// Money
	DefaultCurrency string

	// MailerSend (optional; mail is disabled when the API key is empty)
	MailerSendAPIKey string
	MailFromName     string
	MailFromEmail    string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		WebBind:          getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		BaseURL:          os.Getenv("BASE_URL"),
		JWTSecret:        getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		DefaultCurrency:  getEnvDefault("DEFAULT_CURRENCY", "AUD"),
		MailerSendAPIKey: os.Getenv("MAILERSEND_API_KEY"),
		MailFromName:     getEnvDefault("MAILERSEND_FROM_NAME", "warikan"),
		MailFromEmail:    os.Getenv("MAILERSEND_FROM_EMAIL"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURLFromBind(cfg.WebBind)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if parsed, err := url.Parse(cfg.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid BASE_URL %q", cfg.BaseURL)
	}
	if cfg.MailerSendAPIKey != "" && cfg.MailFromEmail == "" {
		return nil, fmt.Errorf("MAILERSEND_FROM_EMAIL is required when MAILERSEND_API_KEY is set")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// baseURLFromBind derives a local base URL from the bind address.
// e.g. "0.0.0.0:3000" -> "http://localhost:3000"
func baseURLFromBind(bind string) string {
	idx := strings.LastIndex(bind, ":")
	if idx < 0 || idx == len(bind)-1 {
		return "http://localhost:3000"
	}
	return "http://localhost:" + bind[idx+1:]
}
