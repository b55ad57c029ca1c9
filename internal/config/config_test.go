package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OTP_VALIDITY", "")
	t.Setenv("OTP_MAX_ATTEMPTS", "")
	t.Setenv("OTP_STORE", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.OTPValidity)
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.Equal(t, 4, cfg.OTPCodeDigits)
	assert.True(t, cfg.OTPAcceptClientCode)
	assert.Equal(t, "dynamo", cfg.OTPStore)
	assert.Equal(t, "all_users", cfg.PushTopic)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OTP_VALIDITY", "10m")
	t.Setenv("OTP_MAX_ATTEMPTS", "0")
	t.Setenv("OTP_ACCEPT_CLIENT_CODE", "false")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("GMAIL_EMAIL", "sender@gmail.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,192.168.1.7")

	cfg := Load()
	assert.Equal(t, 10*time.Minute, cfg.OTPValidity)
	assert.Equal(t, 0, cfg.OTPMaxAttempts)
	assert.False(t, cfg.OTPAcceptClientCode)
	assert.Equal(t, "sender@gmail.com", cfg.SMTPUsername)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.7"}, cfg.TrustedProxies)
}

func TestGetEnvDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_DURATION", time.Minute))
	t.Setenv("SOME_DURATION", "-5m")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_DURATION", time.Minute))
}
