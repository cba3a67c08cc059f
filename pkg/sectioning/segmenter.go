package sectioning

import (
	"strings"
	"unicode"

	"github.com/sevphysionet/sectioner/pkg/models"
)

// Normalize trims leading whitespace from every line of text. Trigger phrases
// are written against line starts, so indentation would hide them.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeftFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

type Option func(*Segmenter)

// WithStrictNesting drops matches nested in any earlier match, not only in
// the adjacent one.
func WithStrictNesting(strict bool) Option {
	return func(s *Segmenter) {
		s.strictNesting = strict
	}
}

// Segmenter runs the full sectioning pipeline for one document at a time.
// It holds no mutable state and may be shared between goroutines.
type Segmenter struct {
	lexicon       models.Lexicon
	strictNesting bool
}

func NewSegmenter(lex models.Lexicon, opts ...Option) *Segmenter {
	s := &Segmenter{lexicon: lex}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of sectioning one document. Text is the normalized
// document all offsets refer to.
type Result struct {
	DocumentID  string
	Text        string
	SubSections []models.SubSection
	Blocks      []models.SectionBlock
}

// Missed reports whether no trigger phrase was found.
func (r *Result) Missed() bool {
	return len(r.SubSections) == 0
}

// Section normalizes doc and splits it into sub-sections and merged blocks.
func (s *Segmenter) Section(doc models.Document) *Result {
	text := Normalize(doc.Text)

	var resolved []models.Match
	if s.strictNesting {
		resolved = ResolveStrict(text, s.lexicon)
	} else {
		resolved = Resolve(text, s.lexicon)
	}

	result := &Result{
		DocumentID:  doc.ID,
		Text:        text,
		SubSections: Assemble(text, doc.ID, resolved),
	}
	if !result.Missed() {
		result.Blocks = Merge(result.SubSections, text)
	}
	return result
}
