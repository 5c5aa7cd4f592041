package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"paybridge/internal/billing"
	"paybridge/internal/db"
	"paybridge/internal/ratelimiter"
)

type config struct {
	addr        string
	env         string
	apiURL      string
	frontendURL string
	db          dbConfig
	konnect     konnectConfig
	redis       redisConfig
	auth        authConfig
	billing     billing.Config
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
	autoMigrate bool
}

type konnectConfig struct {
	apiURL   string
	apiKey   string
	walletID string
	timeout  time.Duration
}

type redisConfig struct {
	addr     string
	password string
	plansTTL time.Duration
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

// loadConfig reads the process environment. Every required key that is
// missing is reported in a single error.
func loadConfig() (config, error) {
	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := config{
		addr:        ":" + getString("PORT", "3000"),
		env:         getString("ENV", "development"),
		apiURL:      getString("EXTERNAL_URL", "localhost:3000"),
		frontendURL: required("FRONTEND_URL"),
		db: dbConfig{
			maxConns:    int32(getInt("DB_MAX_OPEN_CONNS", 10)),
			maxIdleTime: getString("DB_MAX_IDLE_TIME", "15m"),
			autoMigrate: getBool("DB_AUTO_MIGRATE", false),
		},
		konnect: konnectConfig{
			apiURL:   required("KONNECT_API_URL"),
			apiKey:   required("KONNECT_API_KEY"),
			walletID: required("KONNECT_WALLET"),
			timeout:  getDuration("KONNECT_TIMEOUT", 15*time.Second),
		},
		redis: redisConfig{
			addr:     getString("REDIS_ADDR", ""),
			password: getString("REDIS_PASSWORD", ""),
			plansTTL: getDuration("PLANS_CACHE_TTL", 30*time.Second),
		},
		auth: authConfig{
			basic: basicConfig{
				user: getString("AUTH_BASIC_USER", ""),
				pass: getString("AUTH_BASIC_PASS", ""),
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	dbAddr, err := db.ResolveAddr(os.Getenv("DB_ADDR"), os.Getenv("DB_ADDR_BASE64"))
	if err != nil {
		return config{}, err
	}
	if dbAddr == "" {
		missing = append(missing, "DB_ADDR or DB_ADDR_BASE64")
	}
	cfg.db.addr = dbAddr

	switch src := billing.CreditSource(getString("CREDIT_SOURCE", string(billing.CreditLive))); src {
	case billing.CreditLive, billing.CreditSnapshot:
		cfg.billing.CreditSource = src
	default:
		return config{}, fmt.Errorf("invalid CREDIT_SOURCE %q (want live or snapshot)", src)
	}

	if len(missing) > 0 {
		return config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: getInt("RATELIMITER_REQUESTS_COUNT", 200),
		TimeFrame:            5 * time.Second,
		Enabled:              getBool("RATE_LIMITER_ENABLED", false),
	}
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %d\n", key, fallback)
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %t\n", key, fallback)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %s\n", key, fallback)
	}
	return fallback
}
