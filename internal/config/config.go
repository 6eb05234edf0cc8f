package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port           string
	CacheWindow    time.Duration
	NewsAPIKey     string
	NewsAPIURL     string
	NewsTimeout    time.Duration
	AdminKeyHash   string // bcrypt hash of the admin API key; empty disables admin access
	JWTSecret      string
	JWTTTL         time.Duration
	RateLimitRPS   int
	AllowedOrigins []string
	Debug          bool
}

// Load reads configuration from the environment, with a best-effort .env file
// for local development. Invalid values fail loading rather than being
// silently defaulted.
func Load() (*Config, error) {
	// Missing .env is the normal case in deployment.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		NewsAPIKey:   getEnv("NEWS_API_KEY", ""),
		NewsAPIURL:   getEnv("NEWS_API_URL", "https://newsapi.org/v2/everything"),
		AdminKeyHash: getEnv("ADMIN_KEY_HASH", ""),
		JWTSecret:    getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		Debug:        getEnvBool("DEBUG", false),
	}

	var err error
	if cfg.CacheWindow, err = getEnvDuration("CACHE_WINDOW", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.NewsTimeout, err = getEnvDuration("NEWS_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getEnvDuration("JWT_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvInt("RATE_LIMIT_RPS", 100); err != nil {
		return nil, err
	}
	if cfg.CacheWindow <= 0 {
		return nil, fmt.Errorf("config: CACHE_WINDOW must be positive")
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(o))
		}
	} else {
		// Public awareness data; cross-origin reads are the point.
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
