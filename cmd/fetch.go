package cmd

import (
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch data from the Envato API into the cache",
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

// addSelectionFlags registers the category selection flags shared by fetch
// subcommands.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("site", "", "Envato site")
	cmd.MarkFlagRequired("site")
	cmd.Flags().String("category", "", "Category path, as printed by 'categories list'")
	cmd.Flags().Bool("all-categories", false, "Use all cached categories of the site")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile when done")
}
