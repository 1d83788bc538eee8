package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lukman83/envato-scrape/internal/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report on cached data as CSV",
}

var categorySaleCountCmd = &cobra.Command{
	Use:   "category-sale-count",
	Short: "Show sales statistics per category",
	RunE:  runCategorySaleCount,
}

var categoryHeadCmd = &cobra.Command{
	Use:   "category-head",
	Short: "Show top products in a category sorted by sales",
	RunE:  runCategoryHead,
}

func init() {
	categorySaleCountCmd.Flags().String("site", "", "Envato site to analyze")
	categorySaleCountCmd.MarkFlagRequired("site")

	categoryHeadCmd.Flags().String("site", "", "Envato site to analyze")
	categoryHeadCmd.MarkFlagRequired("site")
	categoryHeadCmd.Flags().String("category", "", "Category (product classification) to analyze")
	categoryHeadCmd.MarkFlagRequired("category")
	categoryHeadCmd.Flags().IntP("number", "n", report.DefaultHeadSize, "Number of top products to show")

	inspectCmd.AddCommand(categorySaleCountCmd, categoryHeadCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runCategorySaleCount(cmd *cobra.Command, args []string) error {
	site, err := siteFlag(cmd)
	if err != nil {
		return err
	}
	rows := report.CategorySaleCount(store.Products(), store.SiteCategories(string(site)), site.Domain())
	return report.WriteCategorySaleCount(cmd.OutOrStdout(), rows)
}

func runCategoryHead(cmd *cobra.Command, args []string) error {
	site, err := siteFlag(cmd)
	if err != nil {
		return err
	}
	category, _ := cmd.Flags().GetString("category")
	n, _ := cmd.Flags().GetInt("number")

	products := report.CategoryHead(store.Products(), site.Domain(), category, n)
	return report.WriteCategoryHead(cmd.OutOrStdout(), products)
}
