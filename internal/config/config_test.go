package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ORDER_API_URL", "http://orders.local/")
	t.Setenv("STORAGE_DRIVER", "local")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://orders.local", cfg.OrderAPIURL)
	assert.Equal(t, cfg.OrderAPIURL, cfg.PaymentAPIURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "30", cfg.StandardShipping.String())
	assert.NotEmpty(t, cfg.ClientCookieSecret)
}

func TestFromEnvCollectsErrors(t *testing.T) {
	t.Setenv("ORDER_API_URL", "")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("SESSION_TIER_TTL", "soon")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDER_API_URL")
	assert.Contains(t, err.Error(), "S3_REGION")
	assert.Contains(t, err.Error(), "SESSION_TIER_TTL")
}
