package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lukman83/envato-scrape/internal/crawl"
	"github.com/lukman83/envato-scrape/internal/ui"
)

var categoryCountsCmd = &cobra.Command{
	Use:   "category-counts",
	Short: "Fetch the total number of products of cached categories",
	RunE:  runCategoryCounts,
}

func init() {
	addSelectionFlags(categoryCountsCmd)
	fetchCmd.AddCommand(categoryCountsCmd)
}

func runCategoryCounts(cmd *cobra.Command, args []string) error {
	sel, err := selection(cmd)
	if err != nil {
		return err
	}
	// validate before asking for the API key
	if err := (crawl.Options{Selection: sel, Page: 1}).Validate(); err != nil {
		return err
	}
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	crawler := crawl.New(client, store,
		crawl.WithLogger(appLogger.Logger),
		crawl.WithMetrics(appMetrics),
	)

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Counting products on site: %s", sel.Site))
	ctx := crawl.WithProgress(cmd.Context(), spin.Update)
	res, err := crawler.FetchCounts(ctx, sel)
	spin.Stop()
	writeMetrics(cmd)

	if res != nil {
		for _, c := range res.Categories {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (path: %s): %s products\n",
				c.Name, c.Path, formatCount(*c.TotalProducts))
		}
	}
	return err
}
