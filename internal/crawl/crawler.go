// Package crawl pages through search results and fills the local cache.
package crawl

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lukman83/envato-scrape/internal/cache"
	"github.com/lukman83/envato-scrape/internal/envato"
	"github.com/lukman83/envato-scrape/internal/metrics"
	"github.com/lukman83/envato-scrape/internal/models"
)

// Searcher fetches one page of search results. *envato.Client implements it.
type Searcher interface {
	Search(ctx context.Context, p envato.SearchParams) (*envato.SearchResult, error)
}

// Crawler drives sequential, paginated searches into a cache.Store.
type Crawler struct {
	api      Searcher
	store    *cache.Store
	logger   *zap.Logger
	metrics  *metrics.Metrics
	maxPages int
}

// Option customises a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Crawler) { c.logger = l }
}

// WithMetrics records crawl counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Crawler) { c.metrics = m }
}

// WithMaxPages sets the "all pages" ceiling. Values below 1 are ignored.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// New creates a Crawler.
func New(api Searcher, store *cache.Store, opts ...Option) *Crawler {
	c := &Crawler{
		api:      api,
		store:    store,
		logger:   zap.NewNop(),
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result summarises a crawl.
type Result struct {
	Categories int
	Pages      int
	Products   int
}

// Run crawls every selected category. Pagination of a category stops at the
// first page with no products. Products are upserted page by page, so an
// error leaves everything fetched before it in the store.
func (c *Crawler) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	categories, err := c.resolve(opts.Selection)
	if err != nil {
		return nil, err
	}

	pages := opts.pages(c.maxPages)
	res := &Result{}
	for _, cat := range categories {
		res.Categories++
		ReportProgress(ctx, fmt.Sprintf("Crawling category: %s", cat.Path))
		c.logger.Info("crawling category",
			zap.String("site", string(opts.Site)),
			zap.String("category", cat.Path),
			zap.Int("pages", len(pages)),
		)

		for _, page := range pages {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			ReportProgress(ctx, fmt.Sprintf("Crawling %s: page %d (%d products so far)", cat.Path, page, res.Products))

			result, err := c.api.Search(ctx, envato.SearchParams{
				Site:          opts.Site,
				Page:          page,
				Category:      cat.Path,
				Term:          opts.Term,
				SortBy:        opts.SortBy,
				SortDirection: opts.SortDirection,
			})
			if err != nil {
				return res, fmt.Errorf("crawl %s page %d: %w", cat.Path, page, err)
			}
			res.Pages++

			for _, p := range result.Products {
				c.store.AddProduct(p)
			}
			res.Products += len(result.Products)
			c.metrics.AddProducts(len(result.Products))
			c.metrics.IncPage(len(result.Products) == 0)

			if len(result.Products) == 0 {
				c.logger.Info("no more products, moving to next category",
					zap.String("category", cat.Path),
					zap.Int("page", page),
				)
				break
			}
			c.logger.Debug("page crawled",
				zap.String("category", cat.Path),
				zap.Int("page", page),
				zap.Int("products", len(result.Products)),
			)
		}
	}
	return res, nil
}

// CountResult summarises a category-counts fetch.
type CountResult struct {
	Categories []models.Category
}

// FetchCounts reads each selected category's total hit count from the first
// search page and stores it as the category's total products.
func (c *Crawler) FetchCounts(ctx context.Context, sel Selection) (*CountResult, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}
	categories, err := c.resolve(sel)
	if err != nil {
		return nil, err
	}

	res := &CountResult{Categories: make([]models.Category, 0, len(categories))}
	for _, cat := range categories {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ReportProgress(ctx, fmt.Sprintf("Counting products in %s", cat.Path))

		result, err := c.api.Search(ctx, envato.SearchParams{
			Site:     sel.Site,
			Page:     1,
			Category: cat.Path,
		})
		if err != nil {
			return res, fmt.Errorf("count %s: %w", cat.Path, err)
		}

		updated := cat.WithTotal(result.TotalHits)
		c.store.AddCategory(string(sel.Site), updated)
		c.metrics.IncCategories()
		res.Categories = append(res.Categories, updated)
		c.logger.Info("category total updated",
			zap.String("category", cat.Path),
			zap.Int64("total_products", result.TotalHits),
		)
	}
	return res, nil
}

// resolve returns the cached categories a selection names, in path order
// for "all categories".
func (c *Crawler) resolve(sel Selection) ([]models.Category, error) {
	site := string(sel.Site)
	if sel.AllCategories {
		categories := c.store.SiteCategories(site)
		if len(categories) == 0 {
			return nil, fmt.Errorf("%w for site %q: run 'envato-scrape categories list --site %s' first",
				ErrNoCachedCategories, site, site)
		}
		return categories, nil
	}

	cat, ok := c.store.Category(site, sel.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q on site %q", ErrCategoryNotFound, sel.Category, site)
	}
	return []models.Category{cat}, nil
}
