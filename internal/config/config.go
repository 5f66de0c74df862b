// Package config loads the service configuration from the environment once
// at startup and validates it eagerly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cyphera/wallet-rpc/internal/constants"
)

var validate = validator.New()

// Config is the complete service configuration.
type Config struct {
	Stage string `validate:"required,oneof=local dev prod"`
	Port  string `validate:"required,numeric"`

	// DatabaseURL selects Postgres storage. Empty keeps all state in memory.
	DatabaseURL string `validate:"omitempty,url"`
	// RedisURL selects a shared origin lock across instances.
	RedisURL     string
	LockTTL      time.Duration `validate:"min=1s"`
	LockPrefix   string        `validate:"required"`
	UnlockOnBoot bool

	Connect        ConnectConfig
	Metrics        MetricsConfig
	SecurityAlerts SecurityAlertsConfig
	Carousel       CarouselConfig
	CORS           CORSConfig
	RateLimit      RateLimitConfig
}

// ConnectConfig configures eth_requestAccounts side effects.
type ConnectConfig struct {
	PartnerOrigin      string `validate:"required,url"`
	ConsentType        string `validate:"required"`
	FailOnMetricsError bool
	// Accounts seeds the in-memory account store.
	Accounts []string `validate:"dive,eth_addr"`
}

// MetricsConfig selects the metrics publisher. SQS wins over NATS; with
// neither set events are logged.
type MetricsConfig struct {
	MetaMetricsID            string
	ParticipateInMetaMetrics bool
	SQSQueueURL              string `validate:"omitempty,url"`
	NATSURL                  string
	NATSSubject              string `validate:"required"`
	Workers                  int    `validate:"min=1,max=64"`
	BufferSize               int    `validate:"min=1"`
}

// SecurityAlertsConfig configures the validation API client and its shield
// tier credentials.
type SecurityAlertsConfig struct {
	Enabled         bool
	URL             string `validate:"required_if=Enabled true,omitempty,url"`
	ShieldURL       string `validate:"omitempty,url"`
	ShieldSecretARN string
	ShieldSecret    string
	ShieldIssuer    string
	ShieldSubject   string
}

// CarouselConfig configures remote slides.
type CarouselConfig struct {
	RemoteSlidesEnabled bool
	FeedURL             string `validate:"omitempty,url"`
	LineageURL          string `validate:"omitempty,url"`
}

// CORSConfig mirrors gin-contrib/cors settings.
type CORSConfig struct {
	AllowedOrigins   []string `validate:"min=1"`
	AllowedMethods   []string `validate:"min=1"`
	AllowedHeaders   []string `validate:"min=1"`
	ExposedHeaders   []string
	AllowCredentials bool
}

// RateLimitConfig is the per-origin limit on the HTTP surface.
type RateLimitConfig struct {
	RequestsPerSecond int `validate:"min=1"`
	Burst             int `validate:"min=1"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv.
func LoadFrom(getenv func(string) string) (*Config, error) {
	env := reader{getenv: getenv}

	cfg := &Config{
		Stage:        env.str("STAGE", constants.StageLocal),
		Port:         env.str("PORT", "8000"),
		DatabaseURL:  env.str("DATABASE_URL", ""),
		RedisURL:     env.str("REDIS_URL", ""),
		LockTTL:      env.duration("ORIGIN_LOCK_TTL", 2*time.Minute),
		LockPrefix:   env.str("ORIGIN_LOCK_PREFIX", "wallet-rpc:origin-lock:"),
		UnlockOnBoot: env.boolean("WALLET_UNLOCK_ON_BOOT", false),
		Connect: ConnectConfig{
			PartnerOrigin:      env.str("REFERRAL_PARTNER_ORIGIN", constants.HyperliquidOrigin),
			ConsentType:        env.str("REFERRAL_CONSENT_TYPE", constants.ApprovalTypeReferralConsent),
			FailOnMetricsError: env.boolean("FAIL_ON_METRICS_ERROR", false),
			Accounts:           env.list("WALLET_ACCOUNTS", nil),
		},
		Metrics: MetricsConfig{
			MetaMetricsID:            env.str("METAMETRICS_ID", ""),
			ParticipateInMetaMetrics: env.boolean("PARTICIPATE_IN_METAMETRICS", false),
			SQSQueueURL:              env.str("METRICS_SQS_QUEUE_URL", ""),
			NATSURL:                  env.str("METRICS_NATS_URL", ""),
			NATSSubject:              env.str("METRICS_NATS_SUBJECT", "wallet.metrics"),
			Workers:                  env.integer("METRICS_WORKERS", 2),
			BufferSize:               env.integer("METRICS_BUFFER_SIZE", 100),
		},
		SecurityAlerts: SecurityAlertsConfig{
			Enabled:         env.boolean("SECURITY_ALERTS_API_ENABLED", false),
			URL:             env.str("SECURITY_ALERTS_API_URL", ""),
			ShieldURL:       env.str("SECURITY_ALERTS_API_URL_SHIELD", ""),
			ShieldSecretARN: env.str("SHIELD_JWT_SECRET_ARN", ""),
			ShieldSecret:    env.str("SHIELD_JWT_SECRET", ""),
			ShieldIssuer:    env.str("SHIELD_JWT_ISSUER", "wallet-rpc"),
			ShieldSubject:   env.str("SHIELD_JWT_SUBJECT", "security-alerts"),
		},
		Carousel: CarouselConfig{
			RemoteSlidesEnabled: env.boolean("CAROUSEL_REMOTE_SLIDES_ENABLED", false),
			FeedURL:             env.str("CAROUSEL_FEED_URL", ""),
			LineageURL:          env.str("PROFILE_LINEAGE_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins:   env.list("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   env.list("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   env.list("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Correlation-ID"}),
			ExposedHeaders:   env.list("CORS_EXPOSED_HEADERS", []string{"X-Correlation-ID"}),
			AllowCredentials: env.boolean("CORS_ALLOW_CREDENTIALS", false),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: env.integer("RATE_LIMIT_RPS", 20),
			Burst:             env.integer("RATE_LIMIT_BURST", 40),
		},
	}

	if env.err != nil {
		return nil, env.err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in prod.
func (c *Config) IsProduction() bool {
	return c.Stage == constants.StageProd
}

type reader struct {
	getenv func(string) string
	err    error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *reader) integer(key string, def int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

func (r *reader) list(key string, def []string) []string {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
}
