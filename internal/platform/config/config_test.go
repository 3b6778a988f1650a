package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"SPARKLE_SUBSCRIBER_ID": "sparkle-demo",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Backend.BaseURL != defaultAPIBaseURL {
		t.Errorf("expected default base url, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.SubscriberID != "sparkle-demo" {
		t.Errorf("unexpected subscriber: %s", cfg.Backend.SubscriberID)
	}
	if cfg.Backend.Retries != defaultHTTPRetries {
		t.Errorf("unexpected retries: %d", cfg.Backend.Retries)
	}
	if cfg.Catalog.CacheTTL != time.Minute {
		t.Errorf("unexpected cache ttl: %s", cfg.Catalog.CacheTTL)
	}
	if cfg.Enquiry.RatePerMinute != 5 {
		t.Errorf("unexpected enquiry rate: %d", cfg.Enquiry.RatePerMinute)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected log level: %s", cfg.LogLevel)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", cfg.Warnings)
	}
}

func TestLoadMissingSubscriberIsWarningOnly(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("expected missing subscriber to be non-fatal, got %v", err)
	}
	if len(cfg.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", cfg.Warnings)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":                         "9000",
		"WEB_PORT":                     "9090",
		"SPARKLE_API_BASE_URL":         "https://api.sparkle.test/api/client/",
		"SPARKLE_SUBSCRIBER_ID":        "tenant-1",
		"SPARKLE_HTTP_TIMEOUT":         "3s",
		"SPARKLE_HTTP_RETRIES":         "0",
		"SPARKLE_CATALOG_CACHE_TTL":    "-5s",
		"SPARKLE_ENQUIRY_RATE_PER_MIN": "not-a-number",
		"SPARKLE_GA_MEASUREMENT_ID":    " G-TEST ",
		"SPARKLE_CONTENT_DIR":          "/srv/content",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected WEB_PORT to win, got %s", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "https://api.sparkle.test/api/client" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 3*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.Backend.Timeout)
	}
	if cfg.Backend.Retries != 1 {
		t.Errorf("expected retries clamped to 1, got %d", cfg.Backend.Retries)
	}
	if cfg.Catalog.CacheTTL != 0 {
		t.Errorf("expected negative ttl clamped to 0, got %s", cfg.Catalog.CacheTTL)
	}
	if cfg.Enquiry.RatePerMinute != defaultEnquiryRatePerMin {
		t.Errorf("expected invalid rate to fall back, got %d", cfg.Enquiry.RatePerMinute)
	}
	if cfg.Analytics.GAMeasurementID != "G-TEST" {
		t.Errorf("unexpected GA id: %q", cfg.Analytics.GAMeasurementID)
	}
	if cfg.Content.Dir != "/srv/content" {
		t.Errorf("unexpected content dir: %q", cfg.Content.Dir)
	}
}

func TestLoadRejectsInvalidBaseURL(t *testing.T) {
	env := map[string]string{"SPARKLE_API_BASE_URL": "not a url"}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fields := verr.Fields(); len(fields) != 1 || fields[0] != "Backend.BaseURL" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nSPARKLE_SUBSCRIBER_ID=from-dotenv\nexport LOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(path), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend.SubscriberID != "from-dotenv" {
		t.Errorf("expected subscriber from dotenv, got %q", cfg.Backend.SubscriberID)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level from dotenv, got %q", cfg.LogLevel)
	}

	cfg, err = Load(context.Background(), WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"SPARKLE_SUBSCRIBER_ID": "explicit"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend.SubscriberID != "explicit" {
		t.Errorf("expected explicit map to win over dotenv, got %q", cfg.Backend.SubscriberID)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.env")
	if _, err := Load(context.Background(), WithEnvFile(path), WithoutSystemEnv()); err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
}
