package config

import (
	"os"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type AuthConfig struct {
	AccessSecret   string
	RefreshSecret  string
	AccessTTL      string
	RefreshTTL     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   string
	CookieSameSite string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "5000"),
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfig{
			AccessSecret:   os.Getenv("JWT_SECRET_ACCESS_KEY"),
			RefreshSecret:  os.Getenv("JWT_SECRET_REFRESH_KEY"),
			AccessTTL:      getenv("JWT_ACCESS_TTL", "30m"),
			RefreshTTL:     getenv("JWT_REFRESH_TTL", "720h"),
			CookiePath:     os.Getenv("AUTH_COOKIE_PATH"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: os.Getenv("AUTH_COOKIE_SAMESITE"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
