package config_test

import (
	"testing"
	"time"

	"github.com/nfrund/accounttabs/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(envOf(map[string]string{"SESSION_SECRET": secret}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetAppAddr())
	assert.Equal(t, "http://localhost:8080/my-account", cfg.GetAccountURL())
	assert.Equal(t, "memory", cfg.GetDBDriver())
	assert.Equal(t, "log", cfg.GetEmailProvider())
	assert.Equal(t, 24*time.Hour, cfg.GetNonceLifetime())
	assert.Equal(t, 24*time.Hour, cfg.GetResetTokenTTL())
	assert.False(t, cfg.GetRegistrationGeneratePassword())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(envOf(map[string]string{
		"SESSION_SECRET":                 secret,
		"APP_BASE_URL":                   "https://shop.example/",
		"ACCOUNT_PATH":                   "/account",
		"REGISTRATION_GENERATE_PASSWORD": "yes",
		"RESET_TOKEN_TTL":                "1h",
		"DB_DRIVER":                      "surreal",
		"SURREAL_URL":                    "ws://localhost:8000",
		"SURREAL_NS":                     "shop",
		"SURREAL_DB":                     "accounts",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example/account", cfg.GetAccountURL())
	assert.True(t, cfg.GetRegistrationGeneratePassword())
	assert.Equal(t, time.Hour, cfg.GetResetTokenTTL())
	assert.Equal(t, "shop", cfg.GetDBNs())
}

func TestFromEnv_ReportsAllProblems(t *testing.T) {
	_, err := config.FromEnv(envOf(map[string]string{
		"SESSION_SECRET": "short",
		"NONCE_LIFETIME": "forever",
		"DB_DRIVER":      "surreal",
		"EMAIL_PROVIDER": "resend",
	}))
	require.Error(t, err)

	for _, want := range []string{"NONCE_LIFETIME", "SessionSecret", "DBUrl", "EmailAPIKey"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestFromEnv_RejectsTinyNonceLifetime(t *testing.T) {
	_, err := config.FromEnv(envOf(map[string]string{
		"SESSION_SECRET": secret,
		"NONCE_LIFETIME": "1ns",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NonceLifetime")
}
