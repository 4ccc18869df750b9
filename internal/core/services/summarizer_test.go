package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scandoc-cli/internal/chunker"
)

// fakeGenerator records every prompt and replies from a scripted queue.
type fakeGenerator struct {
	prompts []string
	replies []string
}

func (f *fakeGenerator) SummarizeOne(_ context.Context, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	if len(f.replies) == 0 {
		return "(empty)"
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply
}

func (f *fakeGenerator) ModelName() string          { return "fake-model" }
func (f *fakeGenerator) Ping(context.Context) error { return nil }
func (f *fakeGenerator) Close() error               { return nil }

// fakePrompts serves the embedded default templates without touching disk.
type fakePrompts struct{}

func (fakePrompts) Load(name string) (string, error) {
	switch name {
	case "chunk_summary":
		return "Summarize chunk [CHUNK %d/%d]\n%s", nil
	case "merge_summary":
		return "Merge into %d bullets:\n%s", nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

func (fakePrompts) Reload() {}

func newTestSummarizer(gen *fakeGenerator, maxChars int) *SummarizerService {
	return NewSummarizerService(gen, fakePrompts{},
		WithSplitter(chunker.New(chunker.WithMaxChars(maxChars))))
}

func TestNewSummarizerService_DefaultSplitter(t *testing.T) {
	svc := NewSummarizerService(&fakeGenerator{}, fakePrompts{})

	require.NotNil(t, svc.splitter)
	assert.Equal(t, chunker.DefaultMaxChars, svc.splitter.MaxChars())
}

func TestSummarize_BlankInputMakesNoCalls(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestSummarizer(gen, 6000)

	for _, input := range []string{"", "   ", "\n\t\n"} {
		result := svc.Summarize(context.Background(), input, 6)
		assert.Equal(t, NoTextDetected, result)
	}
	assert.Empty(t, gen.prompts, "blank input must not reach the generator")
}

func TestSummarize_NoGeneratorConfigured(t *testing.T) {
	svc := NewSummarizerService(nil, fakePrompts{})

	result := svc.Summarize(context.Background(), "some text", 6)
	assert.Contains(t, result, "(error: no AI provider configured")
}

func TestSummarize_SingleChunk(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"- point one\n- point two", "Title\n- merged"}}
	svc := newTestSummarizer(gen, 6000)

	result := svc.Summarize(context.Background(), "A short document.", 6)

	assert.Equal(t, "Title\n- merged", result)
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "[CHUNK 1/1]")
	assert.Contains(t, gen.prompts[0], "A short document.")
	assert.Contains(t, gen.prompts[1], "- point one\n- point two")
}

func TestSummarize_ThreeChunksPreserveOrder(t *testing.T) {
	// Three sentences of ~5000 chars each with a 6000-char window force
	// three chunks in source order.
	sentence := func(tag string) string {
		return tag + " " + strings.Repeat("x", 5000) + "."
	}
	input := sentence("first") + " " + sentence("second") + " " + sentence("third")

	gen := &fakeGenerator{replies: []string{"- alpha", "- beta", "- gamma", "Title\n- merged"}}
	svc := newTestSummarizer(gen, 6000)

	result := svc.Summarize(context.Background(), input, 6)

	assert.Equal(t, "Title\n- merged", result)
	require.Len(t, gen.prompts, 4, "three map calls plus one reduce call")

	assert.Contains(t, gen.prompts[0], "[CHUNK 1/3]")
	assert.Contains(t, gen.prompts[1], "[CHUNK 2/3]")
	assert.Contains(t, gen.prompts[2], "[CHUNK 3/3]")

	// The reduce prompt carries the partials in chunk order.
	reduce := gen.prompts[3]
	alpha := strings.Index(reduce, "- alpha")
	beta := strings.Index(reduce, "- beta")
	gamma := strings.Index(reduce, "- gamma")
	require.GreaterOrEqual(t, alpha, 0)
	assert.Greater(t, beta, alpha)
	assert.Greater(t, gamma, beta)
	assert.Contains(t, reduce, "- alpha\n\n- beta\n\n- gamma")
}

func TestSummarize_ChunkErrorFlowsIntoReduce(t *testing.T) {
	sentence := strings.Repeat("y", 5500) + ". "
	input := sentence + sentence

	gen := &fakeGenerator{replies: []string{"- ok", "(error: timeout)", "Title\n- partial"}}
	svc := newTestSummarizer(gen, 6000)

	result := svc.Summarize(context.Background(), input, 6)

	assert.Equal(t, "Title\n- partial", result)
	require.Len(t, gen.prompts, 3)
	assert.Contains(t, gen.prompts[2], "(error: timeout)", "failed chunk output joins the reduce step unchanged")
}

func TestSummarize_BulletCountDefaultsAndOverrides(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"- a", "out"}}
	svc := newTestSummarizer(gen, 6000)

	svc.Summarize(context.Background(), "text.", 0)
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "Merge into 6 bullets")

	gen.prompts = nil
	gen.replies = []string{"- a", "out"}
	svc.Summarize(context.Background(), "text.", 9)
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "Merge into 9 bullets")
}

func TestExtractTitleAndSummary(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantTitle string
		wantBody  string
	}{
		{
			name:      "title and bullets",
			raw:       "Quarterly Report\n- revenue up\n- costs down",
			wantTitle: "Quarterly Report",
			wantBody:  "- revenue up\n- costs down",
		},
		{
			name:      "markdown headings stripped",
			raw:       "## Quarterly Report\n\n### Highlights\n- revenue up",
			wantTitle: "Quarterly Report",
			wantBody:  "Highlights\n- revenue up",
		},
		{
			name:      "blank lines dropped",
			raw:       "\n\nTitle\n\n- bullet\n\n",
			wantTitle: "Title",
			wantBody:  "- bullet",
		},
		{
			name:      "empty input",
			raw:       "",
			wantTitle: "Untitled",
			wantBody:  "",
		},
		{
			name:      "only heading markers",
			raw:       "###\n##",
			wantTitle: "Untitled",
			wantBody:  "",
		},
		{
			name:      "long first line truncated",
			raw:       strings.Repeat("a", 100) + "\n- bullet",
			wantTitle: strings.Repeat("a", 80),
			wantBody:  "- bullet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := ExtractTitleAndSummary(tt.raw)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
