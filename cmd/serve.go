package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/lukman83/envato-scrape/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server over the cached data",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "Starting Envato Scrape MCP server on stdio...")

	if err := mcpserver.Serve(store, Version); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
