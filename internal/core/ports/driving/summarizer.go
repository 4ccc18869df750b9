package driving

import "context"

// SummarizerService runs the chunk/map/reduce summarisation protocol against
// a remote text-generation service.
//
// Summarize returns a string unconditionally: blank input yields the fixed
// "No text detected." message, and chunk-level remote failures surface as
// "(error: ...)" text inside the result rather than as errors. No retries are
// performed here - retrying is a deliberate caller action.
type SummarizerService interface {
	// Summarize produces a title line followed by at most bulletCount
	// bullet points for the given source text. bulletCount <= 0 selects
	// the default.
	Summarize(ctx context.Context, sourceText string, bulletCount int) string
}
