// Package mcp exposes the local cache as read-only MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukman83/envato-scrape/internal/cache"
)

const serverName = "envato-scrape"

// NewServer builds an MCP server with all tools registered against store.
func NewServer(store *cache.Store, version string) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
	)

	registerTools(s, &tools{store: store})

	return s
}

// Serve runs the MCP stdio server until stdin closes.
func Serve(store *cache.Store, version string) error {
	return server.ServeStdio(NewServer(store, version))
}
