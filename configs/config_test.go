package config

import (
	"testing"
	"time"

	"storefront-checkout/internal/common/enum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := &Config{}
	err := load(cfg, lookupFrom(map[string]string{
		"MIDTRANS_SERVER_KEY": "SB-Mid-server-xyz",
		"JWT_SECRET":          "0123456789abcdef",
		"CART_TTL":            "48h",
	}))
	require.NoError(t, err)

	assert.Equal(t, enum.DEVELOPMENT, cfg.AppEnv)
	assert.False(t, cfg.AppEnv.IsLive())
	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, "IDR", cfg.Currency)
	assert.True(t, cfg.Midtrans3DS)
	assert.Equal(t, 48*time.Hour, cfg.CartTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
}

func TestLoadRequiresVariablesWithoutDefault(t *testing.T) {
	err := load(&Config{}, lookupFrom(map[string]string{"JWT_SECRET": "0123456789abcdef"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIDTRANS_SERVER_KEY")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := map[string]string{
		"APP_PORT":                  "eighty",
		"DB_CACHE":                  "maybe",
		"CHECKOUT_SESSION_IDLE_TTL": "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			err := load(&Config{}, lookupFrom(map[string]string{
				"MIDTRANS_SERVER_KEY": "k",
				"JWT_SECRET":          "0123456789abcdef",
				key:                   value,
			}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
