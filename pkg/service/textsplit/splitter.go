package textsplit

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the target chunk length in runes.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is how many runes consecutive chunks share.
	DefaultChunkOverlap = 100
)

// Splitter splits document text into overlapping chunks for embedding. It
// prefers paragraph boundaries, then line boundaries, then word boundaries,
// and only cuts mid-word when a single word exceeds the chunk size.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// Option is a functional option for Splitter configuration
type Option func(*Splitter)

// WithChunkSize sets the target chunk length in runes.
func WithChunkSize(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in runes.
func WithChunkOverlap(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.chunkOverlap = n
		}
	}
}

// New creates a Splitter with the default 500/100 configuration.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		separators:   []string{"\n\n", "\n", " ", ""},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.chunkOverlap >= s.chunkSize {
		s.chunkOverlap = s.chunkSize / 2
	}
	return s
}

// Split breaks text into chunks of at most the configured size, overlapping
// by the configured amount. Whitespace-only chunks are dropped.
func (s *Splitter) Split(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	if text == "" {
		return nil
	}

	sep := separators[len(separators)-1]
	rest := separators
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return s.hardSplit(text)
	}

	var chunks []string
	var pending []string
	for _, part := range strings.Split(text, sep) {
		if utf8.RuneCountInString(part) <= s.chunkSize {
			pending = append(pending, part)
			continue
		}

		// Oversized part: flush what we have, then recurse with finer
		// separators.
		chunks = append(chunks, s.merge(pending, sep)...)
		pending = nil
		chunks = append(chunks, s.split(part, rest)...)
	}
	chunks = append(chunks, s.merge(pending, sep)...)

	return chunks
}

// merge greedily packs parts into chunks up to chunkSize, carrying the tail
// of each chunk into the next to form the overlap.
func (s *Splitter) merge(parts []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var chunks []string
	var window []string
	total := 0

	flush := func() {
		joined := strings.TrimSpace(strings.Join(window, sep))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, part := range parts {
		partLen := utf8.RuneCountInString(part)

		if total+partLen+sepLen*len(window) > s.chunkSize && len(window) > 0 {
			flush()

			// Shrink the window down to the overlap budget.
			for total > s.chunkOverlap || (total+partLen+sepLen*len(window) > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}

		window = append(window, part)
		total += partLen
	}
	flush()

	return chunks
}

// hardSplit cuts text into fixed-size rune windows. Only reached when a
// single separator-free run exceeds the chunk size.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}

	return chunks
}
