package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no API key in the
// environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(APIKeyEnv, "")
	require.NoError(t, os.Unsetenv(APIKeyEnv))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())

	_, err = cfg.RequireAPIKey()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(APIKeyEnv, "token-123")
	t.Setenv("ENVATO_SCRAPE_CRAWL_MAX_PAGES", "5")
	t.Setenv("ENVATO_SCRAPE_API_TIMEOUT", "10s")
	t.Setenv("ENVATO_SCRAPE_CACHE_FILE", "/tmp/other.json")
	t.Setenv("ENVATO_SCRAPE_HTTP_API_KEY", "bearer")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Crawl.MaxPages)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/other.json", cfg.Cache.File)
	assert.Equal(t, "bearer", cfg.HTTP.APIKey)

	key, err := cfg.RequireAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "token-123", key)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	yaml := `
api:
  rate_per_second: 0.5
  max_rate_limit_retries: 3
crawl:
  max_pages: 7
log:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "envato-scrape.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.API.RatePerSecond)
	assert.Equal(t, 3, cfg.API.MaxRateLimitRetries)
	assert.Equal(t, 7, cfg.Crawl.MaxPages)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep defaults")

	t.Setenv("ENVATO_SCRAPE_CRAWL_MAX_PAGES", "9")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Crawl.MaxPages, "env beats file")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(APIKeyEnv+"=from-dotenv\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.API.Key)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "api/v1" }, wantErr: "api.base_url"},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantErr: "api.timeout"},
		{name: "negative rate", mutate: func(c *Config) { c.API.RatePerSecond = -1 }, wantErr: "api.rate_per_second"},
		{name: "negative retries", mutate: func(c *Config) { c.API.MaxRateLimitRetries = -2 }, wantErr: "max_rate_limit_retries"},
		{name: "no cache file", mutate: func(c *Config) { c.Cache.File = "" }, wantErr: "cache.file"},
		{name: "zero pages", mutate: func(c *Config) { c.Crawl.MaxPages = 0 }, wantErr: "crawl.max_pages"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireAPIKey_TrimsWhitespace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Key = "  "
	_, err := cfg.RequireAPIKey()
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	cfg.API.Key = " abc\n"
	key, err := cfg.RequireAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "abc", key)
}
