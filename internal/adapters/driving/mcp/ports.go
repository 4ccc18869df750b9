package mcp

import (
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Library provides listing, search, and document retrieval.
	Library driving.LibraryService

	// Scan runs summarizations. Optional; without it the summarize tool
	// is not registered.
	Scan driving.ScanService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
