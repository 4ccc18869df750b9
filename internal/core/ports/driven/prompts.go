package driven

// PromptStore provides access to summarization prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptChunkSummary turns one chunk of recognized text into bullet points.
	// The prompt template expects %d (chunk index), %d (chunk count), and
	// %s (chunk text) placeholders.
	PromptChunkSummary = "chunk_summary"

	// PromptMergeSummary merges per-chunk bullet lists into the final summary.
	// The prompt template expects %d (max bullets) and %s (joined partial
	// summaries) placeholders.
	PromptMergeSummary = "merge_summary"
)
