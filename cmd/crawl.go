package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lukman83/envato-scrape/internal/crawl"
	"github.com/lukman83/envato-scrape/internal/envato"
	"github.com/lukman83/envato-scrape/internal/ui"
)

var searchCrawlCmd = &cobra.Command{
	Use:   "search-crawl",
	Short: "Crawl pages from search and add products to cache",
	Example: `  envato-scrape fetch search-crawl --site audiojungle --category music --page 1
  envato-scrape fetch search-crawl --site themeforest --all-categories --all-pages --sort-by sales`,
	RunE: runSearchCrawl,
}

func init() {
	addSelectionFlags(searchCrawlCmd)
	searchCrawlCmd.Flags().Int("page", 0, "Page number to crawl, starting at 1")
	searchCrawlCmd.Flags().Bool("all-pages", false, "Crawl all pages until one comes back empty")
	searchCrawlCmd.Flags().Int("max-pages", 0, "Page ceiling for --all-pages (default from config)")
	searchCrawlCmd.Flags().String("term", "", "Search term")
	searchCrawlCmd.Flags().String("sort-by", "", "Sort results by: relevance, rating, sales, price, date, updated, category, name, trending, featured_until")
	searchCrawlCmd.Flags().String("sort-direction", "desc", "Sort direction: asc or desc")
	fetchCmd.AddCommand(searchCrawlCmd)
}

func runSearchCrawl(cmd *cobra.Command, args []string) error {
	opts, err := crawlOptions(cmd)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	crawler := crawl.New(client, store,
		crawl.WithLogger(appLogger.Logger),
		crawl.WithMetrics(appMetrics),
		crawl.WithMaxPages(cfg.Crawl.MaxPages),
	)

	if opts.AllCategories {
		fmt.Fprintf(cmd.ErrOrStderr(), "Found categories: %s\n",
			categoryPaths(store.SiteCategories(string(opts.Site)), 200))
	}

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Crawling products on site: %s", opts.Site))
	ctx := crawl.WithProgress(cmd.Context(), spin.Update)
	res, err := crawler.Run(ctx, opts)
	spin.Stop()
	writeMetrics(cmd)
	if err != nil {
		if res != nil {
			appLogger.Warn("crawl stopped early, products fetched so far stay cached",
				zap.Int("products", res.Products),
				zap.Int("pages", res.Pages),
			)
		}
		return err
	}

	appLogger.Info("crawl finished",
		zap.String("site", string(opts.Site)),
		zap.Int("categories", res.Categories),
		zap.Int("pages", res.Pages),
		zap.Int("products", res.Products),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s products to cache\n", formatCount(int64(res.Products)))
	return nil
}

func crawlOptions(cmd *cobra.Command) (crawl.Options, error) {
	sel, err := selection(cmd)
	if err != nil {
		return crawl.Options{}, err
	}

	page, _ := cmd.Flags().GetInt("page")
	if cmd.Flags().Changed("page") && page < 1 {
		return crawl.Options{}, fmt.Errorf("%w: page must be at least 1, got %d", crawl.ErrInvalidOptions, page)
	}
	allPages, _ := cmd.Flags().GetBool("all-pages")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	term, _ := cmd.Flags().GetString("term")

	rawSort, _ := cmd.Flags().GetString("sort-by")
	sortBy, err := envato.ParseSortBy(rawSort)
	if err != nil {
		return crawl.Options{}, err
	}
	rawDir, _ := cmd.Flags().GetString("sort-direction")
	direction, err := envato.ParseSortDirection(rawDir)
	if err != nil {
		return crawl.Options{}, err
	}

	return crawl.Options{
		Selection:     sel,
		Page:          page,
		AllPages:      allPages,
		Term:          term,
		SortBy:        sortBy,
		SortDirection: direction,
		MaxPages:      maxPages,
	}, nil
}

func selection(cmd *cobra.Command) (crawl.Selection, error) {
	site, err := siteFlag(cmd)
	if err != nil {
		return crawl.Selection{}, err
	}
	category, _ := cmd.Flags().GetString("category")
	all, _ := cmd.Flags().GetBool("all-categories")
	return crawl.Selection{Site: site, Category: category, AllCategories: all}, nil
}
