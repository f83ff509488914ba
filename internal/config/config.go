package config

import (
	"fmt"
	"strings"
	"time"

	"facility_crm_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from its environment.
type Config struct {
	DatabaseURL     string
	APIKey          string
	JWTSecret       string
	Port            string
	AllowedOrigins  []string
	LogLevel        string
	ApplySchema     bool
	QueryTimeout    time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads configuration from the environment, after merging an optional
// .env file. DATABASE_URL, API_KEY and JWT_SECRET are required.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.LogDebug("No .env file loaded", map[string]interface{}{"reason": err.Error()})
	}

	cfg := &Config{
		DatabaseURL:     utils.Getenv("DATABASE_URL", ""),
		APIKey:          utils.Getenv("API_KEY", ""),
		JWTSecret:       utils.Getenv("JWT_SECRET", ""),
		Port:            utils.Getenv("PORT", "8080"),
		LogLevel:        utils.Getenv("LOG_LEVEL", "info"),
		ApplySchema:     utils.Getenv("DB_APPLY_SCHEMA", "false") == "true",
		QueryTimeout:    utils.GetenvDuration("DB_QUERY_TIMEOUT", 10*time.Second),
		MaxOpenConns:    utils.GetenvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: utils.GetenvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}

	origins := utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	for _, origin := range strings.Split(origins, ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required value at once.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.APIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
