package anchor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor-go/config"
)

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := New("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIKey)
}

func TestNewAPIKeyFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "anc_env_key")

	client, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}

func TestNewWiresAllNamespaces(t *testing.T) {
	client, err := New("anc_test_key")
	require.NoError(t, err)

	assert.NotNil(t, client.Agents)
	assert.NotNil(t, client.Config)
	assert.NotNil(t, client.Data)
	assert.NotNil(t, client.Checkpoints)
	assert.NotNil(t, client.Audit)
}

func TestNewWithBaseURL(t *testing.T) {
	client, err := New("anc_test_key", WithBaseURL("http://localhost:5050/"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5050", client.BaseURL())
}

func TestNewFromSettings(t *testing.T) {
	settings := &config.Settings{
		APIKey:         "anc_settings_key",
		BaseURL:        "http://localhost:5050",
		Timeout:        10 * time.Second,
		RetryAttempts:  2,
		RetryBaseDelay: 100 * time.Millisecond,
	}

	client, err := NewFromSettings(settings)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5050", client.BaseURL())
}

func TestNewFromSettingsOptionsWin(t *testing.T) {
	settings := &config.Settings{
		APIKey:  "anc_settings_key",
		BaseURL: "http://localhost:5050",
	}

	client, err := NewFromSettings(settings, WithBaseURL("http://localhost:6060"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6060", client.BaseURL())
}

func TestClientEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anc_test_key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "anchor-go/"+Version, r.Header.Get("User-Agent"))
		assert.Equal(t, "/v1/agents/a1", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "a1",
			"name":   "support-bot",
			"status": "active",
		})
	}))
	t.Cleanup(server.Close)

	client, err := New("anc_test_key", WithBaseURL(server.URL))
	require.NoError(t, err)

	agent, err := client.Agents.Get(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.Equal(t, "support-bot", agent.Name)
	assert.True(t, agent.IsActive())
}
