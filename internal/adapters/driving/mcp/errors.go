// Package mcp provides an MCP (Model Context Protocol) server adapter for
// scandoc. It lets AI assistants browse, search, and summarize the local
// document library.
package mcp

import "errors"

// ErrMissingLibraryService is returned when the library service is not provided.
var ErrMissingLibraryService = errors.New("mcp: library service is required")
