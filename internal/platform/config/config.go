package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultAPIBaseURL        = "http://localhost:5217/api/client"
	defaultHTTPTimeout       = 10 * time.Second
	defaultHTTPRetries       = 3
	defaultCatalogCacheTTL   = time.Minute
	defaultEnquiryRatePerMin = 5
	defaultLogLevel          = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Catalog   CatalogConfig
	Enquiry   EnquiryConfig
	Content   ContentConfig
	Analytics AnalyticsConfig
	LogLevel  string

	// Warnings lists non-fatal configuration problems the caller should log at startup.
	Warnings []string
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// BackendConfig points at the subscriber-scoped client REST API.
type BackendConfig struct {
	BaseURL      string
	SubscriberID string
	Timeout      time.Duration
	Retries      int
}

// CatalogConfig tunes the catalog merge layer.
type CatalogConfig struct {
	CacheTTL          time.Duration
	LocalProgramsFile string
}

// ContentConfig locates static policy pages. An empty Dir serves the bundled pages.
type ContentConfig struct {
	Dir string
}

// EnquiryConfig controls lead capture throttling.
type EnquiryConfig struct {
	RatePerMinute int
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to the frontend.
type AnalyticsConfig struct {
	GAMeasurementID string
	MetaPixelID     string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// environment variables, and explicit overrides.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     durationWithDefault(lookup, "WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Backend: BackendConfig{
			BaseURL:      strings.TrimRight(strings.TrimSpace(stringWithDefault(lookup, "SPARKLE_API_BASE_URL", defaultAPIBaseURL)), "/"),
			SubscriberID: strings.TrimSpace(stringWithDefault(lookup, "SPARKLE_SUBSCRIBER_ID", "")),
			Timeout:      durationWithDefault(lookup, "SPARKLE_HTTP_TIMEOUT", defaultHTTPTimeout),
			Retries:      intWithDefault(lookup, "SPARKLE_HTTP_RETRIES", defaultHTTPRetries),
		},
		Catalog: CatalogConfig{
			CacheTTL:          durationWithDefault(lookup, "SPARKLE_CATALOG_CACHE_TTL", defaultCatalogCacheTTL),
			LocalProgramsFile: strings.TrimSpace(stringWithDefault(lookup, "SPARKLE_LOCAL_PROGRAMS_FILE", "")),
		},
		Content: ContentConfig{
			Dir: strings.TrimSpace(stringWithDefault(lookup, "SPARKLE_CONTENT_DIR", "")),
		},
		Enquiry: EnquiryConfig{
			RatePerMinute: intWithDefault(lookup, "SPARKLE_ENQUIRY_RATE_PER_MIN", defaultEnquiryRatePerMin),
		},
		Analytics: AnalyticsConfig{
			GAMeasurementID: strings.TrimSpace(stringWithDefault(lookup, "SPARKLE_GA_MEASUREMENT_ID", "")),
			MetaPixelID:     strings.TrimSpace(stringWithDefault(lookup, "SPARKLE_META_PIXEL_ID", "")),
		},
		LogLevel: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
	}

	if cfg.Backend.SubscriberID == "" {
		cfg.Warnings = append(cfg.Warnings, "SPARKLE_SUBSCRIBER_ID is not defined; backend requests will not be tenant scoped")
	}
	if cfg.Backend.Retries < 1 {
		cfg.Backend.Retries = 1
	}
	if cfg.Catalog.CacheTTL < 0 {
		cfg.Catalog.CacheTTL = 0
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		missing = append(missing, "Backend.BaseURL")
	}
	if cfg.Backend.Timeout <= 0 {
		missing = append(missing, "Backend.Timeout")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
