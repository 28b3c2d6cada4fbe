package config

import (
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Expected port %s, got %s", DefaultPort, cfg.Port)
	}
	if cfg.Env != DefaultEnv {
		t.Errorf("Expected env %s, got %s", DefaultEnv, cfg.Env)
	}
	if cfg.JWTIssuer != DefaultJWTIssuer {
		t.Errorf("Expected issuer %s, got %s", DefaultJWTIssuer, cfg.JWTIssuer)
	}
	if cfg.JWTTTLHours != DefaultJWTTTL {
		t.Errorf("Expected TTL %d, got %d", DefaultJWTTTL, cfg.JWTTTLHours)
	}
	if cfg.RateLimitRPS != DefaultRateLimit {
		t.Errorf("Expected rate limit %d, got %d", DefaultRateLimit, cfg.RateLimitRPS)
	}
	if cfg.FilesDir != DefaultFilesDir {
		t.Errorf("Expected files dir %s, got %s", DefaultFilesDir, cfg.FilesDir)
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected development mode by default")
	}
	if cfg.IsProduction() {
		t.Error("Did not expect production mode by default")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when JWT_SECRET is missing")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when JWT_SECRET is too short")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_TTL_HOURS", "24")
	t.Setenv("DEV_TOKENS", "true")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_TO", "ops@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("Expected production mode")
	}
	if cfg.JWTTTLHours != 24 {
		t.Errorf("Expected TTL 24, got %d", cfg.JWTTTLHours)
	}
	if !cfg.DevTokens {
		t.Error("Expected dev tokens enabled")
	}
	if cfg.SMTPHost != "smtp.example.com" {
		t.Errorf("Unexpected SMTP host %s", cfg.SMTPHost)
	}
}

func TestValidate_SMTPRequiresRecipient(t *testing.T) {
	cfg := &Config{
		JWTSecret:   testSecret,
		JWTTTLHours: 1,
		SMTPHost:    "smtp.example.com",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error when SMTP_HOST is set without MAIL_TO")
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL_HOURS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when JWT_TTL_HOURS is zero")
	}
}
