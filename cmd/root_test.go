package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukman83/envato-scrape/config"
	"github.com/lukman83/envato-scrape/internal/cache"
	"github.com/lukman83/envato-scrape/internal/crawl"
	"github.com/lukman83/envato-scrape/internal/models"
)

// execute runs the CLI in an empty working directory without an API key.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.APIKeyEnv, "")
	require.NoError(t, os.Unsetenv(config.APIKeyEnv))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "envato-scrape "+Version+"\n", out)
}

func TestInspectCategorySaleCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	seed := cache.New(path)
	seed.AddProduct(models.Product{ID: 1, Site: "themeforest.net", Classification: "Music", NumberOfSales: 10, PriceCents: 500})
	seed.AddProduct(models.Product{ID: 2, Site: "themeforest.net", Classification: "Music", NumberOfSales: 20, PriceCents: 1000})
	require.NoError(t, seed.Save())

	out, err := execute(t, "inspect", "category-sale-count", "--site", "themeforest", "--cache-file", path)
	require.NoError(t, err)
	assert.Equal(t,
		"Category,Products,Total Sales,Average Sales,Total Revenue,Average Revenue,Total Products,Sales Ratio\n"+
			`"Music","2","30","15.00","250.00","125.00","","30.0000"`+"\n",
		out)
	assert.False(t, store.Dirty(), "reports never mark the cache dirty")
}

func TestSearchCrawl_InvalidFlagsFailBeforeAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	_, err := execute(t, "fetch", "search-crawl", "--site", "audiojungle", "--category", "music", "--cache-file", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, crawl.ErrInvalidOptions)
	assert.NotErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestCategoriesList_MissingAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	_, err := execute(t, "categories", "list", "--site", "audiojungle", "--cache-file", path)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestCategoryCounts_UnknownSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	_, err := execute(t, "fetch", "category-counts", "--site", "envato", "--all-categories", "--cache-file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown site")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdefgh", 2))
	assert.Equal(t, "12,345", formatCount(12345))
}
