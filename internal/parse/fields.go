package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// The grammar matchers, in priority order. Order encodes specificity:
// the first matcher to succeed wins, so the more constrained grammars
// come first. Adding a grammar is a local addition to this table.
var matchers = []struct {
	tag   reference.GrammarTag
	match func(text string, cfg Config) (ParsedFields, bool)
}{
	{reference.TagSemicolon, matchSemicolon},
	{reference.TagStandard, matchStandard},
	{reference.TagEtAl, matchEtAl},
	{reference.TagTranslation, matchTranslation},
	{reference.TagFullName, matchFullName},
}

// ParseFields extracts authors, title, year and venue from one entry's
// raw text. Every entry gets a result: when no grammar matches, the
// fallback extracts a best-effort year and tags the fields unmatched.
func ParseFields(text string, cfg Config) ParsedFields {
	text = strings.TrimSpace(text)
	for _, m := range matchers {
		if fields, ok := m.match(text, cfg); ok {
			fields.Tag = m.tag
			return fields
		}
	}
	return matchUnmatched(text, cfg)
}

var (
	// Year in parentheses, tolerating "(March 3, 1948)" and "(1948, March)".
	yearParenPattern = regexp.MustCompile(`\(\s*(?:[A-Za-z]+\s+\d{1,2},\s*)?(\d{4})(?:\s*,\s*[A-Za-z]+)?\s*\)`)

	// Bare 4-digit year anywhere, for the unmatched fallback.
	bareYearPattern = regexp.MustCompile(`\b(\d{4})\b`)

	// "... &" or "… &" marking elided middle authors.
	ellipsisPattern = regexp.MustCompile(`(?:\.{3}|…)\s*,?\s*&`)

	// "Translated by D. R. Hill (1979)".
	translatedByPattern = regexp.MustCompile(`(?i)translated\s+by\s+([^()]+?)\s*\(\s*(\d{4})\s*\)`)

	// A surname token, possibly multi-word ("Van der Maaten", "O'Brien").
	lastNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z'` + "’" + `-]+(?:\s+[A-Za-z'-]+)*$`)

	// Abbreviated initials: "A.", "A. B.", "A.B.", "C.J.C.H.".
	initialsPattern = regexp.MustCompile(`^(?:[A-Z]\.?)+$`)

	// "Last, First" with spelled-out given names, no abbreviations.
	fullNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z'-]+,\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`)

	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)

	andSeparatorPattern = regexp.MustCompile(`\s+and\s+`)
)

// abbreviatedInitials reports whether a given-name part is an initials
// abbreviation ("J.", "G.E", "C. J. C. H.") rather than a spelled-out name.
func abbreviatedInitials(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return false
	}
	return initialsPattern.MatchString(s)
}

// findPlausibleYear locates the first parenthesized 4-digit year inside
// the configured publication range. Returns the match bounds and year.
func findPlausibleYear(text string, cfg Config) (loc [2]int, year int, ok bool) {
	for _, m := range yearParenPattern.FindAllStringSubmatchIndex(text, -1) {
		y, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || !cfg.yearPlausible(y) {
			continue
		}
		return [2]int{m[0], m[1]}, y, true
	}
	return loc, 0, false
}

// authorSection returns the trimmed text before the year parenthetical.
// Trailing periods stay: they usually belong to initials ("Doe, A.").
func authorSection(text string, yearStart int) string {
	return strings.Trim(strings.TrimSpace(text[:yearStart]), ",")
}

// matchSemicolon parses "Last, F.; Last, F. (YYYY). Title. Venue."
func matchSemicolon(text string, cfg Config) (ParsedFields, bool) {
	loc, year, ok := findPlausibleYear(text, cfg)
	if !ok {
		return ParsedFields{}, false
	}
	section := authorSection(text, loc[0])
	if !strings.Contains(section, ";") {
		return ParsedFields{}, false
	}

	var authors []reference.AuthorName
	for _, part := range strings.Split(section, ";") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "&"))
		part = strings.TrimSpace(strings.TrimPrefix(part, "and "))
		if part == "" {
			continue
		}
		if !looksLikeAuthor(part) {
			return ParsedFields{}, false
		}
		authors = append(authors, reference.ParseAuthorName(part))
	}
	if len(authors) < 2 {
		return ParsedFields{}, false
	}

	title, venue := splitTitleVenue(text[loc[1]:])
	return ParsedFields{Authors: authors, Title: title, Year: year, Venue: venue}, true
}

// matchStandard parses "Last, F., Last, F., & Last, F. (YYYY). Title. Venue."
// including the single-author form "Last, F. (YYYY)." and "F. Last (YYYY).".
func matchStandard(text string, cfg Config) (ParsedFields, bool) {
	loc, year, ok := findPlausibleYear(text, cfg)
	if !ok {
		return ParsedFields{}, false
	}
	section := authorSection(text, loc[0])
	if strings.Contains(section, ";") || ellipsisPattern.MatchString(section) {
		return ParsedFields{}, false
	}
	section = andSeparatorPattern.ReplaceAllString(section, " & ")

	var authors []reference.AuthorName
	if head, tail, found := cutLast(section, "&"); found {
		authors = splitCommaPairedAuthors(head)
		tail = strings.Trim(strings.TrimSpace(tail), ",")
		if tail == "" {
			return ParsedFields{}, false
		}
		authors = append(authors, reference.ParseAuthorName(tail))
	} else {
		authors = splitCommaPairedAuthors(section)
	}
	if len(authors) == 0 {
		return ParsedFields{}, false
	}
	for _, a := range authors {
		if a.Last == "" || !abbreviatedInitials(a.FirstInitials) {
			return ParsedFields{}, false
		}
	}

	title, venue := splitTitleVenue(text[loc[1]:])
	return ParsedFields{Authors: authors, Title: title, Year: year, Venue: venue}, true
}

// matchEtAl parses "Last, F., ... & Last, F. (YYYY)." The named leading
// authors and the final author are captured; the elided middle authors are
// represented by an explicit marker, never invented.
func matchEtAl(text string, cfg Config) (ParsedFields, bool) {
	loc, year, ok := findPlausibleYear(text, cfg)
	if !ok {
		return ParsedFields{}, false
	}
	section := authorSection(text, loc[0])
	ell := ellipsisPattern.FindStringIndex(section)
	if ell == nil {
		return ParsedFields{}, false
	}

	leading := splitCommaPairedAuthors(strings.Trim(section[:ell[0]], " ,"))
	if len(leading) == 0 {
		return ParsedFields{}, false
	}
	last := reference.ParseAuthorName(strings.Trim(section[ell[1]:], " ,"))
	if last.Last == "" {
		return ParsedFields{}, false
	}

	authors := append(leading, reference.ElidedAuthor(), last)
	title, venue := splitTitleVenue(text[loc[1]:])
	return ParsedFields{Authors: authors, Title: title, Year: year, Venue: venue}, true
}

// matchTranslation parses "Original Author. Title. Translated by T (YYYY)...".
// The original author is the first (and only) listed author; the translator
// is captured separately.
func matchTranslation(text string, cfg Config) (ParsedFields, bool) {
	m := translatedByPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return ParsedFields{}, false
	}
	year, err := strconv.Atoi(text[m[4]:m[5]])
	if err != nil || !cfg.yearPlausible(year) {
		return ParsedFields{}, false
	}

	translator := reference.ParseAuthorName(strings.TrimSpace(text[m[2]:m[3]]))

	firstPeriod := strings.Index(text, ".")
	if firstPeriod < 0 || firstPeriod > m[0] {
		return ParsedFields{}, false
	}
	// "(9th century)" and similar qualifiers are not part of the name.
	original := parentheticalPattern.ReplaceAllString(text[:firstPeriod], "")
	author := reference.ParseAuthorName(strings.TrimSpace(original))
	if author.Last == "" {
		return ParsedFields{}, false
	}

	title := strings.Trim(strings.TrimSpace(text[firstPeriod+1:m[0]]), ".,")
	venue := strings.Trim(strings.TrimSpace(text[m[1]:]), "., ")
	return ParsedFields{
		Authors:    []reference.AuthorName{author},
		Title:      title,
		Year:       year,
		Venue:      venue,
		Translator: &translator,
	}, true
}

// matchFullName parses the single-author "LastName, FirstName (YYYY)" form
// with spelled-out given names.
func matchFullName(text string, cfg Config) (ParsedFields, bool) {
	loc, year, ok := findPlausibleYear(text, cfg)
	if !ok {
		return ParsedFields{}, false
	}
	section := authorSection(text, loc[0])
	if !fullNamePattern.MatchString(section) {
		return ParsedFields{}, false
	}

	title, venue := splitTitleVenue(text[loc[1]:])
	return ParsedFields{
		Authors: []reference.AuthorName{reference.ParseAuthorName(section)},
		Title:   title,
		Year:    year,
		Venue:   venue,
	}, true
}

// matchUnmatched is the fallback: a best-effort bare-year search, empty
// authors and title. Records built from it carry zero confidence.
func matchUnmatched(text string, cfg Config) ParsedFields {
	fields := ParsedFields{Tag: reference.TagUnmatched}
	for _, m := range bareYearPattern.FindAllString(text, -1) {
		if y, err := strconv.Atoi(m); err == nil && cfg.yearPlausible(y) {
			fields.Year = y
			break
		}
	}
	return fields
}

// splitCommaPairedAuthors splits comma-separated author text, re-joining
// "Last, F." pairs that the comma split tore apart.
func splitCommaPairedAuthors(s string) []reference.AuthorName {
	parts := strings.Split(s, ",")
	var authors []reference.AuthorName

	i := 0
	for i < len(parts) {
		part := strings.TrimSpace(parts[i])
		if part == "" {
			i++
			continue
		}
		if i+1 < len(parts) {
			next := strings.TrimSpace(parts[i+1])
			if lastNamePattern.MatchString(part) && looksLikeGivenPart(next) {
				authors = append(authors, reference.ParseAuthorName(part+", "+next))
				i += 2
				continue
			}
		}
		authors = append(authors, reference.ParseAuthorName(part))
		i++
	}
	return authors
}

// looksLikeGivenPart reports whether a comma-split token is initials or a
// short given name belonging to the preceding surname.
func looksLikeGivenPart(tok string) bool {
	if tok == "" {
		return false
	}
	if initialsPattern.MatchString(strings.ReplaceAll(tok, " ", "")) {
		return true
	}
	// Short capitalized word without a trailing dot, e.g. "Ng, Andrew" → no:
	// that is the full-name grammar. Here only very short names like "Bo".
	return len(tok) <= 3 && tok[0] >= 'A' && tok[0] <= 'Z' && !strings.HasSuffix(tok, ".")
}

// looksLikeAuthor is a sanity check on a semicolon-split author chunk.
func looksLikeAuthor(part string) bool {
	if len(part) > 60 || len(strings.Fields(part)) > 6 {
		return false
	}
	r := rune(part[0])
	return r >= 'A' && r <= 'Z'
}

// splitTitleVenue separates the text after the year parenthetical into the
// title (up to the next sentence-terminal period) and the venue remainder.
func splitTitleVenue(after string) (title, venue string) {
	s := strings.TrimLeft(after, " .,:;")
	if s == "" {
		return "", ""
	}

	if end := sentenceEnd(s); end >= 0 {
		title = s[:end]
		venue = strings.Trim(strings.TrimSpace(s[end+1:]), ".")
	} else {
		title = s
	}

	title = strings.Trim(strings.TrimSpace(title), `."”“'`)
	venue = strings.TrimSpace(venue)
	return title, venue
}

// sentenceEnd finds the first sentence-terminal period: a '.' followed by
// a space or end of text that does not terminate an initial or a common
// bibliographic abbreviation.
func sentenceEnd(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '.' {
			continue
		}
		if i+1 < len(s) && s[i+1] != ' ' {
			continue
		}
		if isInitialDot(s, i) || isAbbrevDot(s, i) {
			continue
		}
		return i
	}
	return -1
}

// isInitialDot reports whether the period at i terminates a single-letter
// initial such as the "J." in "J. Smith".
func isInitialDot(s string, i int) bool {
	if i < 1 || s[i-1] < 'A' || s[i-1] > 'Z' {
		return false
	}
	return i == 1 || s[i-2] == ' ' || s[i-2] == '.'
}

var trailingAbbrevs = []string{"vs", "etc", "et al", "No", "Vol", "pp", "ed", "eds", "Dr", "Mr", "Ms", "St"}

func isAbbrevDot(s string, i int) bool {
	head := s[:i]
	for _, a := range trailingAbbrevs {
		if strings.HasSuffix(head, a) {
			cut := len(head) - len(a)
			if cut == 0 || head[cut-1] == ' ' || head[cut-1] == '(' {
				return true
			}
		}
	}
	return false
}

// cutLast splits s around the final occurrence of sep.
func cutLast(s, sep string) (before, after string, found bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}
