package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_APP_ENV", "dev")
	t.Setenv("STOREFRONT_APP_PORT", "8080")
	t.Setenv("STOREFRONT_BACKEND_BASE_URL", "https://jerseystore-server.onrender.com/web")
	t.Setenv("STOREFRONT_GATEWAY_SECRET_KEY", "sk_test_x")
	t.Setenv("STOREFRONT_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	require.True(t, cfg.App.IsDev())
	require.Equal(t, time.Second, cfg.Cart.PollInterval)
	require.True(t, cfg.Cart.PollEnabled)
	require.Equal(t, "https://api.paymongo.com", cfg.Gateway.BaseURL)
	require.Equal(t, 10*time.Second, cfg.Backend.Timeout)
}

func TestLoadRequiresBackendBaseURL(t *testing.T) {
	t.Setenv("STOREFRONT_APP_ENV", "dev")
	t.Setenv("STOREFRONT_APP_PORT", "8080")
	t.Setenv("STOREFRONT_GATEWAY_SECRET_KEY", "sk_test_x")
	t.Setenv("STOREFRONT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STOREFRONT_BACKEND_BASE_URL", "placeholder")
	os.Unsetenv("STOREFRONT_BACKEND_BASE_URL")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when backend base url missing")
	}
}
