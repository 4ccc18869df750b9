// Package chunker splits long source text into bounded-size segments on
// sentence boundaries, one segment per map-step summarisation call.
package chunker

import "strings"

// DefaultMaxChars is the default segment size in characters. Sized to stay
// well inside typical text-generation endpoint input limits.
const DefaultMaxChars = 6000

// Splitter divides text into ordered segments no longer than a maximum,
// preferring to cut after a sentence-terminating period.
type Splitter struct {
	maxChars int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxChars sets the maximum segment size in characters.
func WithMaxChars(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxChars returns the configured segment size.
func (s *Splitter) MaxChars() int {
	return s.maxChars
}

// Split divides text into trimmed, non-blank segments in source order.
// Each segment is at most MaxChars long: the cut lands just after the last
// period inside the window when one exists, otherwise exactly at the limit.
// Whitespace-trimmed concatenation of the segments reconstructs the input.
// Deterministic: the same text and limit always produce the same boundaries.
func (s *Splitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) <= s.maxChars {
		return []string{trimmed}
	}

	var parts []string
	for i := 0; i < len(trimmed); {
		end := i + s.maxChars
		if end > len(trimmed) {
			end = len(trimmed)
		}

		cut := end
		if end < len(trimmed) {
			// Prefer ending the segment just after a sentence boundary.
			if rel := strings.LastIndexByte(trimmed[i:end], '.'); rel > 0 {
				cut = i + rel + 1
			}
		}

		if part := strings.TrimSpace(trimmed[i:cut]); part != "" {
			parts = append(parts, part)
		}
		i = cut
	}
	return parts
}
