package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"applepay-checkout-api/database"
)

const (
	defaultRedisURL      = "redis://localhost:6379/0"
	defaultServerPort    = "8080"
	defaultJWTIssuer     = "applepay-checkout-api"
	defaultCountryCode   = "US"
	defaultCacheTTL      = 10 * time.Minute
	defaultSessionMaxAge = 86400
)

type Config struct {
	Database database.DatabaseConfig
	Server   ServerConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Internal InternalConfig
	Session  SessionConfig
	ApplePay ApplePayConfig
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type InternalConfig struct {
	Secret string
}

type SessionConfig struct {
	Secret string
	Domain string
	MaxAge int
}

type ApplePayConfig struct {
	DefaultCountry string
	CacheTTL       time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		Database: database.DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Server: ServerConfig{
			Port: os.Getenv("SERVER_PORT"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: os.Getenv("JWT_ISSUER"),
		},
		Internal: InternalConfig{
			Secret: os.Getenv("INTERNAL_API_SECRET"),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			Domain: os.Getenv("SESSION_DOMAIN"),
			MaxAge: getEnvInt("SESSION_MAX_AGE", defaultSessionMaxAge),
		},
		ApplePay: ApplePayConfig{
			DefaultCountry: strings.ToUpper(strings.TrimSpace(os.Getenv("APPLEPAY_DEFAULT_COUNTRY"))),
			CacheTTL:       getEnvDuration("APPLEPAY_CACHE_TTL", defaultCacheTTL),
		},
	}

	if cfg.Redis.URL == "" {
		cfg.Redis.URL = defaultRedisURL
		log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = defaultServerPort
		log.Printf("Warning: SERVER_PORT not set, using default: %s", cfg.Server.Port)
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = defaultJWTIssuer
	}

	if cfg.ApplePay.DefaultCountry == "" {
		cfg.ApplePay.DefaultCountry = defaultCountryCode
		log.Printf("Warning: APPLEPAY_DEFAULT_COUNTRY not set, using default: %s", cfg.ApplePay.DefaultCountry)
	}

	if cfg.JWT.Secret == "" {
		log.Printf("Warning: JWT_SECRET not set, merchant tokens cannot be verified")
	}
	if cfg.Internal.Secret == "" {
		log.Printf("Warning: INTERNAL_API_SECRET not set, token generation is disabled")
	}
	if cfg.Session.Secret == "" {
		log.Printf("Warning: SESSION_SECRET not set, checkout cookies are not signed securely")
	}

	log.Printf("Config loaded: port=%s db=%s@%s/%s country=%s cacheTTL=%s",
		cfg.Server.Port, cfg.Database.User, cfg.Database.Host, cfg.Database.DBName,
		cfg.ApplePay.DefaultCountry, cfg.ApplePay.CacheTTL)

	return cfg
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default: %d", key, raw, fallback)
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value < 0 {
		log.Printf("Warning: invalid %s %q, using default: %s", key, raw, fallback)
		return fallback
	}
	return value
}
