// Package services contains the core application services implementing the
// driving port interfaces.
//
// Services:
//   - SummarizerService: chunk/map/reduce summarisation over a text generator
//   - ScanService: scan lifecycle - previews, summarisation runs, saves
//   - LibraryService: listing, searching, and deleting saved documents
//
// Services depend only on domain types and driven port interfaces, never on
// concrete adapters.
package services
