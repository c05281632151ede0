// Package parse implements the citation parsing engine: it turns raw
// per-page PDF text into an ordered sequence of normalized citation
// records, robust to inconsistent citation grammars and embedded noise.
//
// The pipeline is Normalize → Segment → (per chapter) DetectEntries →
// (per entry) ParseFields → Assemble. Every stage is a pure function from
// one immutable input to one immutable output.
package parse

import "github.com/ellis-chang/academic-reference-extractor/internal/reference"

// RawPage is the input boundary of the engine: one page of plain text
// produced by the external extraction service. Never mutated.
type RawPage struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Line is one line of the normalized document, tagged with the chapter
// marker it carries, if any.
type Line struct {
	Text      string
	ChapterID string // non-empty only on chapter-marker lines
}

// NormalizedDocument is the single cleaned line stream produced by the
// Normalizer. Line order matches original document order; hyphen-split
// word fragments have been joined.
type NormalizedDocument struct {
	Lines []Line
}

// ChapterBlock is one chapter-scoped bibliography block. Chapters are
// contiguous, non-overlapping partitions of the normalized document,
// ordered by first appearance.
type ChapterBlock struct {
	ChapterID string
	Title     string // marker text, empty for the implicit front matter
	RawText   string
}

// RawEntry is one citation entry span within a chapter. Offsets index
// into the chapter's RawText and are monotonically increasing.
type RawEntry struct {
	ChapterID   string
	CitationKey string // without brackets, empty when paragraph fallback was used
	RawText     string
	StartOffset int
	EndOffset   int
}

// ParsedFields is the output of the field parser for a single entry.
type ParsedFields struct {
	Authors []reference.AuthorName
	Title   string
	Year    int
	Venue   string
	Tag     reference.GrammarTag

	// Translator is set only by the translation grammar. It is kept
	// separate from the author list so it is never conflated with the
	// last author of the original work.
	Translator *reference.AuthorName
}
