package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories from a specific Envato site and cache them",
	RunE:  runCategoriesList,
}

func init() {
	categoriesListCmd.Flags().String("site", "", "Envato site to list categories from")
	categoriesListCmd.MarkFlagRequired("site")
	categoriesCmd.AddCommand(categoriesListCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	site, err := siteFlag(cmd)
	if err != nil {
		return err
	}
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	categories, found, err := client.Categories(cmd.Context(), site)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "No categories found or unexpected response format")
		return nil
	}

	for _, c := range categories {
		store.AddCategory(string(site), c)
		appMetrics.IncCategories()
		fmt.Fprintf(cmd.OutOrStdout(), "%s (path: %s)\n", c.Name, c.Path)
	}
	appLogger.Info("categories cached",
		zap.String("site", string(site)),
		zap.Int("count", len(categories)),
	)
	return nil
}
