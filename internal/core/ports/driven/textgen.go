package driven

import "context"

// TextGenerator invokes a remote text-generation endpoint with a single
// prompt.
//
// SummarizeOne never fails at the type level: transport and endpoint failures
// are returned in-band as "(error: <message>)" strings, and a successful call
// that produced no text returns "(empty)". This is deliberate - the
// summarisation orchestrator merges around failed chunk calls instead of
// aborting the whole pipeline, so failures at this layer are data, not
// control flow.
type TextGenerator interface {
	// SummarizeOne sends one prompt and returns the extracted text,
	// or an in-band error sentinel.
	SummarizeOne(ctx context.Context, prompt string) string

	// ModelName returns the model identifier sent with each request.
	ModelName() string

	// Ping validates the endpoint is reachable without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
