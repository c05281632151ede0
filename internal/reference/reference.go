// Package reference defines the core domain types for parsed citations.
package reference

// GrammarTag records which citation-format matcher successfully parsed an entry.
type GrammarTag string

const (
	TagStandard    GrammarTag = "standard"    // Last, F., & Last, F. (YYYY). Title. Venue.
	TagSemicolon   GrammarTag = "semicolon"   // Last, F.; Last, F. (YYYY). Title. Venue.
	TagTranslation GrammarTag = "translation" // Original Author. Title. Translated by T (YYYY).
	TagEtAl        GrammarTag = "etal"        // Last, F., ... & Last, F. (YYYY).
	TagFullName    GrammarTag = "fullname"    // LastName, FirstName (YYYY)
	TagUnmatched   GrammarTag = "unmatched"   // No grammar matched; year is best-effort only.
)

// CitationRecord is the final artifact of the parsing engine: one bibliography
// entry normalized into structured fields. Records are immutable once created
// and are consumed read-only by the enrichment service and the report sink.
type CitationRecord struct {
	// Identity
	RecordID    int    `json:"record_id"`              // Monotonic, stable within a run
	ChapterID   string `json:"chapter_id"`             // "0" is the implicit front-matter chapter
	CitationKey string `json:"citation_key,omitempty"` // e.g. "Smith '23", without brackets

	// Parsed fields
	FirstAuthor *AuthorName `json:"first_author,omitempty"`
	LastAuthor  *AuthorName `json:"last_author,omitempty"` // nil means "same as first"
	Translator  *AuthorName `json:"translator,omitempty"` // translation grammar only
	Title       string      `json:"title,omitempty"`
	Year        int         `json:"year,omitempty"`
	Venue       string      `json:"venue,omitempty"`

	// Parse provenance
	GrammarTag GrammarTag `json:"grammar_tag"`
	Confidence float64    `json:"parse_confidence"` // 0.0 iff GrammarTag == TagUnmatched

	// Original entry text, kept for the enrichment prompt and for debugging.
	RawText string `json:"raw_text,omitempty"`
}

// AuthorInfo holds enrichment data resolved for a single author by the
// lookup service (Semantic Scholar, DBLP, or LLM).
type AuthorInfo struct {
	Name        string  `json:"name"`
	Affiliation string  `json:"affiliation,omitempty"`
	Department  string  `json:"department,omitempty"`
	Email       string  `json:"email,omitempty"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source,omitempty"` // semantic_scholar, dblp, llm
}

// EnrichedRecord pairs a citation record with the lookup results for its
// first and last authors. This is the row shape the report sink consumes.
type EnrichedRecord struct {
	CitationRecord
	FirstAuthorInfo *AuthorInfo `json:"first_author_info,omitempty"`
	LastAuthorInfo  *AuthorInfo `json:"last_author_info,omitempty"`
}
