package config

import (
	"testing"
	"time"
)

func TestNewViperFromBytes(t *testing.T) {
	t.Parallel()

	// Arrange
	raw := []byte(`
modules:
  otp:
    default_ttl_seconds: 300
    delivery_timeout_seconds: 5
    delivery_channel: EMAIL
app:
  cors:
    origins: "http://a.test, http://b.test"
    methods:
      - GET
      - POST
`)

	// Act
	cfg, err := NewViperFromBytes("yaml", raw)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.GetInt("modules.otp.default_ttl_seconds"); got != 300 {
		t.Fatalf("ttl = %d, want 300", got)
	}
	if got := cfg.GetSecond("modules.otp.delivery_timeout_seconds"); got != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", got)
	}
	if got := cfg.GetString("modules.otp.delivery_channel"); got != "EMAIL" {
		t.Fatalf("channel = %q", got)
	}
	if got := cfg.GetArray("app.cors.origins"); len(got) != 2 || got[1] != "http://b.test" {
		t.Fatalf("origins = %v", got)
	}
	if got := cfg.GetArray("app.cors.methods"); len(got) != 2 || got[0] != "GET" {
		t.Fatalf("methods = %v", got)
	}
	if got := cfg.GetArray("missing.key"); len(got) != 0 {
		t.Fatalf("missing = %v", got)
	}
}

func TestNewViperFromBytes_EnvOverride(t *testing.T) {
	// Arrange
	t.Setenv("OTPGATE_MODULES_OTP_DELIVERY_CHANNEL", "FILE")

	// Act
	cfg, err := NewViperFromBytes("yaml", []byte("modules:\n  otp:\n    delivery_channel: EMAIL\n"))

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.GetString("modules.otp.delivery_channel"); got != "FILE" {
		t.Fatalf("channel = %q, want FILE", got)
	}
}

func TestNewViperFromBytes_EmptyType(t *testing.T) {
	t.Parallel()

	if _, err := NewViperFromBytes(" ", nil); err == nil {
		t.Fatalf("expected error for empty config type")
	}
}
