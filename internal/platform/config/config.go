// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"onboarding/internal/onboarding/templates"
	"onboarding/internal/onboarding/validation"
)

// Config is the full process configuration.
type Config struct {
	Server     Server
	Log        Log
	Redis      RedisConfig
	Kafka      Kafka
	Renderer   Renderer
	Wizard     Wizard
	Submission Submission
	RateLimit  RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	// TrustedProxies are the CIDRs whose X-Forwarded-For is believed when
	// deriving the client address. Empty trusts no forwarding header.
	TrustedProxies []string
}

type Log struct {
	Level  string
	Format string
}

// RedisConfig selects the session backend. An empty URL keeps sessions in
// process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SessionTTL   time.Duration
}

// Kafka configures the compliance audit sink. Without brokers audit events
// stay in memory.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// Renderer locates the document generation backend.
type Renderer struct {
	BaseURL    string
	SubmitPath string
	Timeout    time.Duration
}

// Wizard holds the configurable onboarding rules.
type Wizard struct {
	MaxUploadBytes int64
	UIDPolicy      validation.UIDPolicy
	FormKPolicy    templates.FormKPolicy
}

type Submission struct {
	// Retention is how long finished submission results stay queryable.
	Retention time.Duration
}

// RateLimit bounds wizard requests per client address.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// FromEnv builds the configuration from environment variables so main stays
// lean. Invalid values fall back to their defaults; each fallback is reported
// in the returned warnings.
func FromEnv() (Config, []string) {
	return Load(os.Getenv)
}

// Load is FromEnv with an injectable lookup.
func Load(getenv func(string) string) (Config, []string) {
	e := env{get: getenv}
	cfg := Config{
		Server: Server{
			Addr:            e.str("ONBOARDING_ADDR", ":8080"),
			ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedProxies:  e.list("TRUSTED_PROXIES"),
		},
		Log: Log{
			Level:  e.str("LOG_LEVEL", "info"),
			Format: e.str("LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     e.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: e.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			SessionTTL:   e.duration("SESSION_TTL", 2*time.Hour),
		},
		Kafka: Kafka{
			Brokers:    e.list("KAFKA_BROKERS"),
			AuditTopic: e.str("KAFKA_AUDIT_TOPIC", "onboarding.audit"),
		},
		Renderer: Renderer{
			BaseURL:    e.str("RENDERER_BASE_URL", "http://localhost:3000"),
			SubmitPath: e.str("RENDERER_SUBMIT_PATH", "/api/submit"),
			Timeout:    e.duration("RENDERER_TIMEOUT", 30*time.Second),
		},
		Wizard: Wizard{
			MaxUploadBytes: int64(e.int("MAX_UPLOAD_BYTES", int(validation.DefaultMaxFileSize))),
			UIDPolicy:      validation.UIDOptional,
			FormKPolicy:    templates.FormKDisabled,
		},
		Submission: Submission{
			Retention: e.duration("SUBMISSION_RETENTION", 24*time.Hour),
		},
		RateLimit: RateLimit{
			Requests: e.int("RATE_LIMIT_REQUESTS", 120),
			Window:   e.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if raw := getenv("UID_POLICY"); raw != "" {
		if p, err := validation.ParseUIDPolicy(raw); err != nil {
			e.warn("UID_POLICY: %v, using %s", err, cfg.Wizard.UIDPolicy)
		} else {
			cfg.Wizard.UIDPolicy = p
		}
	}
	if raw := getenv("FORM_K_POLICY"); raw != "" {
		if p, err := templates.ParseFormKPolicy(raw); err != nil {
			e.warn("FORM_K_POLICY: %v, using %s", err, cfg.Wizard.FormKPolicy)
		} else {
			cfg.Wizard.FormKPolicy = p
		}
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		e.warn("LOG_FORMAT: unknown format %q, using json", cfg.Log.Format)
		cfg.Log.Format = "json"
	}
	return cfg, e.warnings
}

type env struct {
	get      func(string) string
	warnings []string
}

func (e *env) warn(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		e.warn("%s: invalid positive integer %q, using %d", key, raw, def)
		return def
	}
	return n
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		e.warn("%s: invalid duration %q, using %s", key, raw, def)
		return def
	}
	return d
}

func (e *env) list(key string) []string {
	var out []string
	for part := range strings.SplitSeq(e.get(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
