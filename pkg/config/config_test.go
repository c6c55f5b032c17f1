package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "yahoo", c.Provider.Type)
	assert.Equal(t, 10, c.Provider.MaxResults)
	assert.Equal(t, 300*time.Millisecond, c.Viewer.Debounce)
	assert.Equal(t, 2, c.Viewer.MinQueryLength)
	assert.NoError(t, c.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/metrics", c.Metrics.Path)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
provider:
  type: eodhd
  eodhd:
    api_key: demo
viewer:
  debounce: 150ms
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "eodhd", c.Provider.Type)
	assert.Equal(t, "demo", c.Provider.EODHD.APIKey)
	assert.Equal(t, 150*time.Millisecond, c.Viewer.Debounce)
	// untouched siblings keep their defaults
	assert.Equal(t, "https://eodhd.com/api", c.Provider.EODHD.BaseURL)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
}

func TestLoadRejectsEODHDWithoutKey(t *testing.T) {
	path := writeConfig(t, "provider:\n  type: eodhd\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "api_key")
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "provider:\n  type: bloomberg\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("PROVIDER", "eodhd")
	t.Setenv("EODHD_API_KEY", "from-env")
	t.Setenv("STOCKHISTORY_API_URL", "http://api:7070")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, "eodhd", c.Provider.Type)
	assert.Equal(t, "from-env", c.Provider.EODHD.APIKey)
	assert.Equal(t, "http://api:7070", c.Viewer.APIURL)
}

func TestLoadKeepsExplicitFalse(t *testing.T) {
	path := writeConfig(t, "metrics:\n  enabled: false\nserver:\n  cors: false\n")
	c, err := Load(path)
	require.NoError(t, err)

	assert.False(t, c.Metrics.Enabled)
	assert.False(t, c.Server.CORS)
}
