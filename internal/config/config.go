package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	MongoURI      string
	MongoDatabase string

	JWTSecret string
	JWTTTL    time.Duration

	// Auto-approval policy for new registrations, resolved once at startup
	// and threaded into the auth service.
	AutoApprove        bool
	AutoApproveDomains []string

	StaticDir string

	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5000,http://127.0.0.1:5000")),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "jongohub"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AutoApprove:        getEnv("AUTO_APPROVE", "false") == "true",
		AutoApproveDomains: splitList(os.Getenv("AUTO_APPROVE_DOMAINS")),

		StaticDir: getEnv("STATIC_DIR", "./frontend"),

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@jongohub.local"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	return cfg, nil
}

// ShouldAutoApprove decides the approval status for a new registration:
// approve everyone when the global flag is set, or when the registrant's
// email domain is on the allow-list.
func (c *Config) ShouldAutoApprove(email string) bool {
	if c.AutoApprove {
		return true
	}
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	for _, d := range c.AutoApproveDomains {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
