package crawl

import (
	"errors"
	"fmt"

	"github.com/lukman83/envato-scrape/internal/envato"
)

// DefaultMaxPages is the "all pages" ceiling when none is configured.
const DefaultMaxPages = 60

var (
	// ErrInvalidOptions reports a bad flag combination.
	ErrInvalidOptions = errors.New("invalid crawl options")
	// ErrNoCachedCategories means "all categories" was asked for a site
	// whose categories were never listed.
	ErrNoCachedCategories = errors.New("no cached categories")
	// ErrCategoryNotFound means an explicit category path is not cached.
	ErrCategoryNotFound = errors.New("category not found in cache")
)

// Selection picks the cached categories an operation works on. Exactly one
// of Category and AllCategories must be set.
type Selection struct {
	Site          envato.Site
	Category      string
	AllCategories bool
}

func (s Selection) validate() error {
	if s.Site == "" {
		return fmt.Errorf("%w: site is required", ErrInvalidOptions)
	}
	if s.AllCategories && s.Category != "" {
		return fmt.Errorf("%w: cannot specify both --category and --all-categories", ErrInvalidOptions)
	}
	if !s.AllCategories && s.Category == "" {
		return fmt.Errorf("%w: must specify either --category or --all-categories", ErrInvalidOptions)
	}
	return nil
}

// Options configures a search crawl. Exactly one of Page and AllPages must
// be set; Page counts from 1.
type Options struct {
	Selection
	Page          int
	AllPages      bool
	Term          string
	SortBy        envato.SortBy
	SortDirection string
	// MaxPages overrides the crawler's "all pages" ceiling when positive.
	MaxPages int
}

// Validate checks the option combination without touching the cache.
func (o Options) Validate() error {
	if err := o.Selection.validate(); err != nil {
		return err
	}
	if o.AllPages && o.Page != 0 {
		return fmt.Errorf("%w: cannot specify both --page and --all-pages", ErrInvalidOptions)
	}
	if !o.AllPages && o.Page == 0 {
		return fmt.Errorf("%w: must specify either --page or --all-pages", ErrInvalidOptions)
	}
	if o.Page < 0 {
		return fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidOptions, o.Page)
	}
	if o.MaxPages < 0 {
		return fmt.Errorf("%w: max pages must not be negative", ErrInvalidOptions)
	}
	return nil
}

// pages returns the page numbers to visit, ascending.
func (o Options) pages(ceiling int) []int {
	if !o.AllPages {
		return []int{o.Page}
	}
	if o.MaxPages > 0 {
		ceiling = o.MaxPages
	}
	pages := make([]int, ceiling)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
