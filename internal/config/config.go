// Package config loads the Friend App settings from the environment. Every
// key has a default except JWT_SECRET; Load normalizes the raw values and
// reports every invalid setting at once.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/friend-app/internal/sysutil"
)

// CORSConfig lists the browser origins allowed to call the API. Empty means
// any origin.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig controls Strict-Transport-Security.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig selects the OTLP trace exporter.
type OTELConfig struct {
	Enabled     bool
	Endpoint    string // host:port of the collector
	Insecure    bool   // plaintext gRPC
	ServiceName string
	SampleRatio float64 // 0..1
}

// AuthConfig holds credential and token settings.
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int
}

// Config is the full runtime configuration.
type Config struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string

	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	DBDriver    string // sqlite or postgres
	DBPath      string
	DatabaseDSN string

	Auth AuthConfig

	MaxImageBytes   int
	MaxMessageRunes int
	RateRPS         float64
	RateBurst       int
	IdempotencyTTL  time.Duration

	CORS     CORSConfig
	Security SecurityConfig
	OTEL     OTELConfig
}

// MustLoad is Load for process start-up; it panics on invalid settings.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads, normalizes and validates the configuration.
func Load() (Config, error) {
	cfg := Config{
		Port:              str("PORT", "8080"),
		ReadTimeout:       duration("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: duration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      duration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       duration("IDLE_TIMEOUT", time.Minute),
		MaxHeaderBytes:    integer("MAX_HEADER_BYTES", 1<<20),
		GinMode:           lower("GIN_MODE", "release"),

		LogLevel:       lower("LOG_LEVEL", "info"),
		LogPretty:      boolean("LOG_PRETTY", false),
		SwaggerEnabled: boolean("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(str("API_BASE_PATH", "/api/v1")),

		DBDriver:    lower("DB_DRIVER", "sqlite"),
		DBPath:      str("DB_PATH", "friendapp.db"),
		DatabaseDSN: str("DATABASE_DSN", ""),

		Auth: AuthConfig{
			JWTSecret:      str("JWT_SECRET", ""),
			AccessTokenTTL: duration("ACCESS_TOKEN_TTL", 24*time.Hour),
			BcryptCost:     integer("BCRYPT_COST", 10),
		},

		MaxImageBytes:   integer("MAX_IMAGE_BYTES", 100*1024),
		MaxMessageRunes: integer("MAX_MESSAGE_RUNES", 2000),
		RateRPS:         float("RATE_RPS", 5),
		RateBurst:       integer("RATE_BURST", 10),
		IdempotencyTTL:  duration("IDEMPOTENCY_TTL", 24*time.Hour),

		CORS: CORSConfig{AllowedOrigins: splitCSV(str("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: boolean("ENABLE_HSTS", false),
			HSTSMaxAge: duration("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		OTEL: OTELConfig{
			Enabled:     boolean("OTEL_ENABLED", false),
			Endpoint:    str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    boolean("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: str("OTEL_SERVICE_NAME", "friend-app"),
			SampleRatio: float("OTEL_TRACES_SAMPLER_ARG", 1),
		},
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.GinMode != "debug" && c.GinMode != "test" {
		c.GinMode = "release"
	}
	switch c.DBDriver {
	case "postgresql", "pg":
		c.DBDriver = "postgres"
	case "sqlite3":
		c.DBDriver = "sqlite"
	}
}

// Validate returns every invalid setting joined into one error, or nil.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"))
	}
	check(strings.TrimSpace(c.Port) != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"READ/WRITE/IDLE timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch c.DBDriver {
	case "sqlite":
		check(strings.TrimSpace(c.DBPath) != "", "DB_PATH must not be empty")
	case "postgres":
		check(strings.TrimSpace(c.DatabaseDSN) != "", "DATABASE_DSN must be set when DB_DRIVER=postgres")
	default:
		errs = append(errs, errors.New("DB_DRIVER must be one of: sqlite, postgres"))
	}

	check(len(c.Auth.JWTSecret) >= 16, "JWT_SECRET must be at least 16 bytes")
	check(c.Auth.AccessTokenTTL > 0, "ACCESS_TOKEN_TTL must be > 0")
	check(c.Auth.BcryptCost >= 4 && c.Auth.BcryptCost <= 31, "BCRYPT_COST must be between 4 and 31")

	check(c.MaxImageBytes > 0, "MAX_IMAGE_BYTES must be > 0")
	check(c.MaxMessageRunes > 0, "MAX_MESSAGE_RUNES must be > 0")
	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")

	return errors.Join(errs...)
}

// lookup parses the variable key, falling back to def when it is unset,
// empty or unparsable.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func lower(key, def string) string { return strings.ToLower(strings.TrimSpace(str(key, def))) }

func integer(key string, def int) int { return lookup(key, def, strconv.Atoi) }

func float(key string, def float64) float64 {
	return lookup(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func duration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

var errNotBool = errors.New("not a boolean")

func boolean(key string, def bool) bool {
	return lookup(key, def, func(s string) (bool, error) {
		if sysutil.IsTruthy(s) {
			return true, nil
		}
		switch strings.ToLower(s) {
		case "0", "false", "no", "n", "off":
			return false, nil
		}
		return false, errNotBool
	})
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath returns p with a leading slash and no trailing slash;
// empty becomes "/".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
