// Package export renders parsed citation records in exchange formats.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// ToBibTeX converts one citation record to a BibTeX entry. The entry key
// derives from the citation key ("Smith '23" → Smith23); records without
// a key fall back to ref<record id>.
func ToBibTeX(rec reference.CitationRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", determineEntryType(rec), entryKey(rec)))

	if authors := formatAuthors(rec); authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", authors))
	}
	if rec.Title != "" {
		b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(rec.Title)))
	}
	if rec.Venue != "" {
		fieldName := "journal"
		if determineEntryType(rec) == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(rec.Venue)))
	}
	if rec.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", rec.Year))
	}
	if rec.Translator != nil {
		b.WriteString(fmt.Sprintf("  translator = {%s},\n", escapeLatex(rec.Translator.DisplayName())))
	}
	// Unmatched entries keep their raw text so nothing is lost on export.
	if rec.GrammarTag == reference.TagUnmatched && rec.RawText != "" {
		b.WriteString(fmt.Sprintf("  note = {%s},\n", escapeLatex(rec.RawText)))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX format.
func ToBibTeXList(records []reference.CitationRecord) string {
	var entries []string
	for _, rec := range records {
		entries = append(entries, ToBibTeX(rec))
	}
	return strings.Join(entries, "\n")
}

var keyCharPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

// entryKey builds a BibTeX-safe key from the citation key or record ID.
func entryKey(rec reference.CitationRecord) string {
	if rec.CitationKey != "" {
		return keyCharPattern.ReplaceAllString(rec.CitationKey, "")
	}
	return fmt.Sprintf("ref%d", rec.RecordID)
}

// determineEntryType returns the BibTeX entry type for a record.
func determineEntryType(rec reference.CitationRecord) string {
	venue := strings.ToLower(rec.Venue)

	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	return "article"
}

// formatAuthors formats the known authors in BibTeX style, representing
// elided middle authors with the "others" keyword.
func formatAuthors(rec reference.CitationRecord) string {
	var formatted []string

	add := func(a *reference.AuthorName) {
		if a == nil {
			return
		}
		if a.Elided {
			formatted = append(formatted, "others")
			return
		}
		if a.FirstInitials != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.Last, a.FirstInitials))
		} else if a.Last != "" {
			formatted = append(formatted, a.Last)
		} else if a.Raw != "" {
			formatted = append(formatted, a.Raw)
		}
	}

	add(rec.FirstAuthor)
	if rec.GrammarTag == reference.TagEtAl {
		formatted = append(formatted, "others")
	}
	add(rec.LastAuthor)

	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// NewReplacer substitutes in a single pass, so inserted backslashes
	// are never re-escaped.
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
