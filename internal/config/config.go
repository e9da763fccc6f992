// Package config reads runtime settings from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Addr    string
	BaseURL string
	Env     string

	// Client identity cookie.
	ClientCookieName   string
	ClientCookieSecret []byte
	CookieSecure       bool

	// Storage tiers.
	StorageDriver  string // db|local|s3
	DBDSN          string
	LocalStateDir  string
	S3Region       string
	S3Bucket       string
	S3Prefix       string
	SessionTTL     time.Duration
	SessionMaxKeys int
	CartPageTTL    time.Duration

	// External collaborators.
	OrderAPIURL    string
	PaymentAPIURL  string
	PaymentAPIKey  string
	RequestTimeout time.Duration

	// Checkout pricing.
	Currency              string
	StandardShipping      decimal.Decimal
	ExpressShipping       decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	DisplayCurrency       string
	DisplayRate           decimal.Decimal
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	// prod uses real env vars; a missing .env is fine
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (Config, error) {
	var errs []error

	cfg := Config{
		Addr:    envOr("HTTP_ADDR", ":8080"),
		BaseURL: strings.TrimRight(envOr("BASE_URL", "http://localhost:8080"), "/"),
		Env:     envOr("APP_ENV", "development"),

		ClientCookieName:   envOr("CLIENT_COOKIE_NAME", "brendt_client"),
		ClientCookieSecret: []byte(os.Getenv("CLIENT_COOKIE_SECRET")),
		CookieSecure:       envBool("COOKIE_SECURE", false),

		StorageDriver:  strings.ToLower(envOr("STORAGE_DRIVER", "db")),
		DBDSN:          os.Getenv("DB_DSN"),
		LocalStateDir:  envOr("LOCAL_STATE_DIR", "./storage/state"),
		S3Region:       os.Getenv("S3_REGION"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Prefix:       envOr("S3_PREFIX", "client-state"),
		SessionMaxKeys: envInt("SESSION_TIER_MAX_KEYS", 50000, &errs),
		SessionTTL:     envDuration("SESSION_TIER_TTL", 30*time.Minute, &errs),
		CartPageTTL:    envDuration("CART_PAGE_TTL", 2*time.Hour, &errs),

		OrderAPIURL:    strings.TrimRight(os.Getenv("ORDER_API_URL"), "/"),
		PaymentAPIURL:  strings.TrimRight(os.Getenv("PAYMENT_API_URL"), "/"),
		PaymentAPIKey:  os.Getenv("PAYMENT_API_KEY"),
		RequestTimeout: envDuration("API_TIMEOUT", 15*time.Second, &errs),

		Currency:              strings.ToUpper(envOr("CURRENCY", "MAD")),
		StandardShipping:      envDecimal("SHIPPING_STANDARD", "30", &errs),
		ExpressShipping:       envDecimal("SHIPPING_EXPRESS", "60", &errs),
		FreeShippingThreshold: envDecimal("SHIPPING_FREE_THRESHOLD", "0", &errs),
		DisplayCurrency:       strings.ToUpper(os.Getenv("DISPLAY_CURRENCY")),
		DisplayRate:           envDecimal("DISPLAY_RATE", "0", &errs),
	}

	if len(cfg.ClientCookieSecret) == 0 {
		if cfg.Env == "production" {
			errs = append(errs, errors.New("CLIENT_COOKIE_SECRET is required in production"))
		}
		cfg.ClientCookieSecret = []byte("dev-insecure-client-secret")
	}
	if cfg.OrderAPIURL == "" {
		errs = append(errs, errors.New("ORDER_API_URL is required"))
	}
	if cfg.PaymentAPIURL == "" {
		cfg.PaymentAPIURL = cfg.OrderAPIURL
	}
	switch cfg.StorageDriver {
	case "db":
		if cfg.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required when STORAGE_DRIVER=db"))
		}
	case "local":
	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" {
			errs = append(errs, errors.New("S3_REGION and S3_BUCKET are required when STORAGE_DRIVER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.StorageDriver))
	}

	return cfg, errors.Join(errs...)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(k string, def int, errs *[]error) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return n
}

func envDuration(k string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return d
}

func envDecimal(k, def string, errs *[]error) decimal.Decimal {
	v := envOr(k, def)
	d, err := decimal.NewFromString(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return decimal.RequireFromString(def)
	}
	return d
}
