package parse

import (
	"regexp"
	"strconv"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// Year embedded in a citation key: "Smith '23", "Hill '1979", straight or
// curly apostrophe.
var keyYearPattern = regexp.MustCompile(`['` + "‘’" + `](\d{2,4})`)

// Assemble merges entry spans and their parsed fields into the final
// ordered record sequence. Record IDs are monotonically increasing across
// the whole run; entries the field parser could not match are still
// emitted (never silently dropped) so coverage accounting stays honest.
// MaxRefs, when set, caps the total number of records.
func Assemble(entries []RawEntry, fields []ParsedFields, cfg Config) ([]reference.CitationRecord, []Diagnostic) {
	var (
		records []reference.CitationRecord
		diags   []Diagnostic
	)

	nextID := 1
	for i, entry := range entries {
		if cfg.MaxRefs > 0 && nextID > cfg.MaxRefs {
			break
		}
		f := fields[i]

		rec := reference.CitationRecord{
			RecordID:    nextID,
			ChapterID:   entry.ChapterID,
			CitationKey: entry.CitationKey,
			Translator:  f.Translator,
			Title:       f.Title,
			Year:        f.Year,
			Venue:       f.Venue,
			GrammarTag:  f.Tag,
			Confidence:  cfg.confidenceFor(f.Tag),
			RawText:     entry.RawText,
		}

		if len(f.Authors) > 0 {
			first := f.Authors[0]
			rec.FirstAuthor = &first
			if len(f.Authors) > 1 {
				last := f.Authors[len(f.Authors)-1]
				rec.LastAuthor = &last
			}
			// LastAuthor stays nil for a single author, signaling "same
			// as first" to downstream consumers.
		}

		if rec.Year == 0 {
			rec.Year = yearFromKey(entry.CitationKey, cfg)
		}

		if f.Tag == reference.TagUnmatched {
			diags = append(diags, Diagnostic{
				Kind:      DiagUnmatchedEntry,
				ChapterID: entry.ChapterID,
				Key:       entry.CitationKey,
				Message:   "entry fell through all grammar matchers",
			})
		}

		records = append(records, rec)
		nextID++
	}

	return records, diags
}

// yearFromKey recovers a publication year from the citation key when the
// entry text had none. Two-digit years expand on a 1950 pivot: '51 → 1951,
// '23 → 2023.
func yearFromKey(key string, cfg Config) int {
	m := keyYearPattern.FindStringSubmatch(key)
	if m == nil {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if len(m[1]) == 2 {
		if y > 50 {
			y += 1900
		} else {
			y += 2000
		}
	}
	if !cfg.yearPlausible(y) {
		return 0
	}
	return y
}
