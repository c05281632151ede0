package parse

import (
	"regexp"
	"time"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// Default heuristics. Exposed so callers and tests can reference them
// rather than repeating magic numbers.
const (
	// DefaultMinChapterLines is the minimum number of content lines that
	// must separate two chapter markers; a marker followed too closely by
	// another is suppressed as a false positive.
	DefaultMinChapterLines = 1

	// DefaultHeaderRepeatPages is how many pages a line must recur on
	// (verbatim, or modulo a page-number token) to be treated as a
	// running header or footer.
	DefaultHeaderRepeatPages = 2

	// DefaultAnchorLookback is the window, in characters, the boundary
	// detector scans backwards from a citation-key anchor for a line break
	// or paragraph-start whitespace before accepting it as an entry start.
	DefaultAnchorLookback = 2

	// DefaultWorkers bounds the per-chapter fan-out of the pipeline.
	DefaultWorkers = 4
)

// DefaultChapterMarkerPattern matches delimiter lines like
// "———— Chapter 3 ————" (any dash style, two or more in the border).
// The single capture group is the chapter number.
var DefaultChapterMarkerPattern = regexp.MustCompile(`^[-—–_=]{2,}\s*Chapter\s+(\d+)\s*[-—–_=]{2,}$`)

// DefaultCitationKeyPattern matches bracketed short-form keys like
// [Smith '23], [Lee '19a] or [Van der Maaten '08], with straight or curly
// apostrophes. Groups: last name, two-or-four digit year, optional suffix.
var DefaultCitationKeyPattern = regexp.MustCompile(`\[([A-Za-z][^\[\]']*?)\s*['` + "‘’" + `](\d{2,4})\s*([A-Za-z])?\]`)

// Config is the read-only configuration shared by all pipeline stages.
// It is never mutated after initialization, so it is safe to share across
// the per-chapter workers without synchronization.
type Config struct {
	// MaxRefs caps the total number of entries assembled, 0 = unlimited.
	MaxRefs int

	// ChapterMarkerPattern recognizes chapter delimiter lines. Must have
	// one capture group yielding the chapter identifier.
	ChapterMarkerPattern *regexp.Regexp

	// CitationKeyPattern recognizes bracketed citation-key anchors.
	CitationKeyPattern *regexp.Regexp

	// YearMin and YearMax bound plausible publication years; a matched
	// year outside the range is rejected and the entry falls through to
	// the next grammar.
	YearMin int
	YearMax int

	// MinChapterLines, HeaderRepeatPages and AnchorLookback tune the
	// segmentation and boundary heuristics; see the Default* constants.
	MinChapterLines   int
	HeaderRepeatPages int
	AnchorLookback    int

	// Confidence maps each grammar tag to the parse confidence assigned
	// to records it produced. The values are policy, not contract, but
	// must order standard/semicolon ≥ etal ≥ translation ≥ fullname and
	// keep unmatched at exactly zero.
	Confidence map[reference.GrammarTag]float64

	// Workers bounds parallel per-chapter processing.
	Workers int
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		ChapterMarkerPattern: DefaultChapterMarkerPattern,
		CitationKeyPattern:   DefaultCitationKeyPattern,
		YearMin:              1500,
		YearMax:              time.Now().Year() + 1,
		MinChapterLines:      DefaultMinChapterLines,
		HeaderRepeatPages:    DefaultHeaderRepeatPages,
		AnchorLookback:       DefaultAnchorLookback,
		Confidence: map[reference.GrammarTag]float64{
			reference.TagStandard:    0.95,
			reference.TagSemicolon:   0.95,
			reference.TagEtAl:        0.85,
			reference.TagTranslation: 0.75,
			reference.TagFullName:    0.6,
			reference.TagUnmatched:   0,
		},
		Workers: DefaultWorkers,
	}
}

// confidenceFor looks up the configured confidence for a tag. Unknown tags
// get zero, matching the unmatched tier.
func (c Config) confidenceFor(tag reference.GrammarTag) float64 {
	if c.Confidence == nil {
		return DefaultConfig().Confidence[tag]
	}
	return c.Confidence[tag]
}

// yearPlausible reports whether a year falls inside the configured
// publication range.
func (c Config) yearPlausible(year int) bool {
	min, max := c.YearMin, c.YearMax
	if min == 0 {
		min = 1500
	}
	if max == 0 {
		max = time.Now().Year() + 1
	}
	return year >= min && year <= max
}
