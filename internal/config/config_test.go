package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORTFOLIO_CONFIG", "")
	for _, env := range keys {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, DeliveryAPI, c.Contact.Delivery)
	assert.Equal(t, "http://backend:8000/api/public/contact", c.Contact.Endpoint)
	assert.Equal(t, 10*time.Second, c.Contact.ResetDelay)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 365*24*time.Hour, c.VisitorRetention)
	assert.Equal(t, "ru", c.DefaultLocale)
	assert.Equal(t, "https://sabirov.tech", c.SiteURL)
	assert.False(t, c.Release())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("PUBLIC_API_KEY", "k-123")
	t.Setenv("STATUS_RESET_DELAY", "3s")
	t.Setenv("GIN_MODE", "release")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "https://api.example.com", c.Contact.BackendURL)
	assert.Equal(t, "https://api.example.com/api/public/contact", c.Contact.Endpoint)
	assert.Equal(t, "k-123", c.Contact.APIKey)
	assert.Equal(t, 3*time.Second, c.Contact.ResetDelay)
	assert.True(t, c.Release())
}

func TestExplicitEndpointWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTACT_ENDPOINT", "http://localhost:8000/api/public/contact")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/public/contact", c.Contact.Endpoint)
}

func TestSMTPDeliveryRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTACT_DELIVERY", "smtp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP credentials not configured")

	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("TO_EMAIL", "me@example.com")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DeliverySMTP, c.Contact.Delivery)
	assert.Equal(t, "smtp.gmail.com", c.SMTP.Host)
}

func TestUnknownDelivery(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTACT_DELIVERY", "pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pigeon")
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "portfolio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "7000"

[contact]
api_key = "from-file"

[session]
ttl = "5m"
`), 0o644))
	t.Setenv("PORTFOLIO_CONFIG", path)
	t.Setenv("PORT", "7100")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7100", c.Port, "env overrides file")
	assert.Equal(t, "from-file", c.Contact.APIKey)
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
}

func TestVisitorRetentionMustBePositive(t *testing.T) {
	for _, v := range []string{"0s", "-24h"} {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("VISITOR_RETENTION", v)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "VISITOR_RETENTION must be positive")
		})
	}
}

func TestSiteURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITE_URL", "https://example.dev/")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.dev", c.SiteURL)

	t.Setenv("SITE_URL", "example.dev")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SITE_URL")
}
