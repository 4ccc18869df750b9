package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/scandoc-cli/internal/chunker"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// Ensure SummarizerService implements the interface.
var _ driving.SummarizerService = (*SummarizerService)(nil)

// DefaultBulletCount caps the final summary when the caller does not specify
// a target.
const DefaultBulletCount = 6

// NoTextDetected is returned for blank input without any remote call.
const NoTextDetected = "No text detected."

// SummarizerService runs the chunk/map/reduce summarisation protocol.
//
// Each chunk is summarised by its own remote call, issued sequentially in
// source order, then one final call merges the partial summaries. Remote
// failures arrive as in-band "(error: ...)" strings from the generator and
// flow through the merge untouched.
type SummarizerService struct {
	generator driven.TextGenerator
	prompts   driven.PromptStore
	splitter  *chunker.Splitter
}

// SummarizerOption configures a SummarizerService.
type SummarizerOption func(*SummarizerService)

// WithSplitter overrides the default text splitter.
func WithSplitter(s *chunker.Splitter) SummarizerOption {
	return func(svc *SummarizerService) {
		svc.splitter = s
	}
}

// NewSummarizerService creates a summarizer backed by the given generator.
// Prompt templates come from the prompt store, falling back to its embedded
// defaults.
func NewSummarizerService(generator driven.TextGenerator, prompts driven.PromptStore, opts ...SummarizerOption) *SummarizerService {
	svc := &SummarizerService{
		generator: generator,
		prompts:   prompts,
		splitter:  chunker.New(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Summarize produces a title line followed by bullet points for the given
// source text. Blank input short-circuits to NoTextDetected. bulletCount <= 0
// selects DefaultBulletCount.
func (s *SummarizerService) Summarize(ctx context.Context, sourceText string, bulletCount int) string {
	clean := strings.TrimSpace(sourceText)
	if clean == "" {
		return NoTextDetected
	}
	if s.generator == nil {
		return `(error: no AI provider configured, run "scandoc config set-key")`
	}
	if bulletCount <= 0 {
		bulletCount = DefaultBulletCount
	}

	chunks := s.splitter.Split(clean)
	logger.Debug("summarizing %d chars in %d chunks, target %d bullets", len(clean), len(chunks), bulletCount)

	chunkTemplate := s.loadPrompt(driven.PromptChunkSummary)
	partials := make([]string, 0, len(chunks))
	for i, part := range chunks {
		prompt := fmt.Sprintf(chunkTemplate, i+1, len(chunks), part)
		partials = append(partials, s.generator.SummarizeOne(ctx, prompt))
	}

	mergeTemplate := s.loadPrompt(driven.PromptMergeSummary)
	prompt := fmt.Sprintf(mergeTemplate, bulletCount, strings.Join(partials, "\n\n"))
	return s.generator.SummarizeOne(ctx, prompt)
}

// loadPrompt fetches a template by name. The prompt store falls back to its
// embedded defaults for known names, so an error here means the name itself
// is unknown.
func (s *SummarizerService) loadPrompt(name string) string {
	prompt, err := s.prompts.Load(name)
	if err != nil {
		logger.Warn("loading prompt %q: %v", name, err)
		return "%d/%d\n%s"
	}
	return prompt
}

// headingMarkers matches leading markdown heading syntax on a line.
var headingMarkers = regexp.MustCompile(`^#{1,6}\s*`)

// maxTitleLength bounds extracted titles.
const maxTitleLength = 80

// ExtractTitleAndSummary splits raw summarizer output into a title and a
// summary body. Markdown heading markers and blank lines are stripped; the
// first remaining line, truncated to maxTitleLength, becomes the title and
// the rest joined by newlines become the body. With no usable lines the
// title is "Untitled" and the body empty.
func ExtractTitleAndSummary(raw string) (title, body string) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = headingMarkers.ReplaceAllString(strings.TrimSpace(line), "")
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return "Untitled", ""
	}

	title = lines[0]
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	return title, strings.Join(lines[1:], "\n")
}
