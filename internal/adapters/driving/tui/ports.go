package tui

import (
	"errors"

	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the TUI needs.
type Ports struct {
	// Library provides listing, search, and deletion.
	Library driving.LibraryService

	// Scan runs summarizations. Optional; without it the retry key is
	// disabled.
	Scan driving.ScanService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return errors.New("tui: library service is required")
	}
	return nil
}
