package cmd

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lukman83/envato-scrape/internal/models"
)

// formatCount renders n with thousands separators, e.g. "12,345".
func formatCount(n int64) string {
	return humanize.Comma(n)
}

// categoryPaths joins category paths for display, truncated to max runes.
func categoryPaths(categories []models.Category, max int) string {
	paths := make([]string, len(categories))
	for i, c := range categories {
		paths[i] = c.Path
	}
	return truncate(strings.Join(paths, ", "), max)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
