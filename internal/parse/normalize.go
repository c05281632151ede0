package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	digitRun      = regexp.MustCompile(`\d+`)
)

// Normalize turns raw per-page text into a single cleaned line stream:
// running headers and footers are removed, hyphen-broken words are joined,
// whitespace runs are collapsed and chapter-marker lines are tagged.
//
// When no page yields any text the result is an empty document plus an
// empty-input diagnostic; this is reported, not fatal.
func Normalize(pages []RawPage, cfg Config) (NormalizedDocument, []Diagnostic) {
	var diags []Diagnostic

	boilerplate := collectBoilerplate(pages, cfg)

	var lines []string
	for _, page := range pages {
		for _, raw := range strings.Split(page.Text, "\n") {
			line := cleanLine(raw)
			if line == "" {
				// Blank lines are kept as paragraph separators for the
				// boundary detector's fallback strategy.
				lines = append(lines, "")
				continue
			}
			if boilerplate[maskPageNumbers(line)] {
				continue
			}
			lines = append(lines, line)
		}
	}

	lines = joinHyphenBreaks(lines)

	doc := NormalizedDocument{}
	hasText := false
	for _, line := range lines {
		tagged := Line{Text: line}
		if line != "" {
			hasText = true
			if m := cfg.ChapterMarkerPattern.FindStringSubmatch(line); m != nil {
				tagged.ChapterID = m[1]
			}
		}
		doc.Lines = append(doc.Lines, tagged)
	}

	if !hasText {
		doc.Lines = nil
		diags = append(diags, Diagnostic{
			Kind:    DiagEmptyInput,
			Message: "no extractable text on any page",
		})
	}

	return doc, diags
}

// collectBoilerplate builds the frequency map of lines that recur on
// multiple pages (verbatim, or modulo a page-number token). One pass to
// count, applied in the caller's second pass; no ambient state.
func collectBoilerplate(pages []RawPage, cfg Config) map[string]bool {
	threshold := cfg.HeaderRepeatPages
	if threshold <= 0 {
		threshold = DefaultHeaderRepeatPages
	}
	if len(pages) < threshold {
		return nil
	}

	pageCount := make(map[string]int)
	for _, page := range pages {
		seen := make(map[string]bool)
		for _, raw := range strings.Split(page.Text, "\n") {
			line := cleanLine(raw)
			if line == "" {
				continue
			}
			masked := maskPageNumbers(line)
			if !seen[masked] {
				seen[masked] = true
				pageCount[masked]++
			}
		}
	}

	boilerplate := make(map[string]bool)
	for masked, n := range pageCount {
		if n >= threshold {
			boilerplate[masked] = true
		}
	}
	return boilerplate
}

// cleanLine normalizes unicode (NFC), maps typographic hyphens to ASCII
// and collapses whitespace runs.
func cleanLine(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.NewReplacer("‐", "-", "‑", "-", "­", "").Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// maskPageNumbers replaces digit runs so "Bibliography 12" and
// "Bibliography 13" count as the same recurring header line.
func maskPageNumbers(line string) string {
	return digitRun.ReplaceAllString(line, "#")
}

// joinHyphenBreaks merges a line ending in a hyphen with the leading token
// of the next non-empty line. A lowercase continuation means the hyphen was
// a line-break artifact and is dropped; an uppercase continuation is kept
// as a compound (Addison-Wesley split across lines stays hyphenated).
func joinHyphenBreaks(lines []string) []string {
	out := make([]string, 0, len(lines))
	i := 0
	for i < len(lines) {
		line := lines[i]
		for strings.HasSuffix(line, "-") && endsInWordHyphen(line) {
			j := i + 1
			for j < len(lines) && lines[j] == "" {
				j++
			}
			if j >= len(lines) {
				break
			}
			next := lines[j]
			token, rest, _ := strings.Cut(next, " ")
			if token == "" {
				break
			}
			if isLowerStart(token) {
				line = strings.TrimSuffix(line, "-") + token
			} else {
				line = line + token
			}
			if rest != "" {
				lines[j] = rest
				break
			}
			// The whole next line was consumed; skip it and keep joining
			// in case the merged token itself ends in a hyphen.
			copy(lines[i+1:], lines[j+1:])
			lines = lines[:len(lines)-(j-i)]
		}
		out = append(out, line)
		i++
	}
	return out
}

// endsInWordHyphen reports whether the trailing hyphen follows a letter,
// i.e. it broke a word rather than being a dash-border or bullet.
func endsInWordHyphen(line string) bool {
	trimmed := strings.TrimSuffix(line, "-")
	if trimmed == "" {
		return false
	}
	r := rune(trimmed[len(trimmed)-1])
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isLowerStart(token string) bool {
	r := rune(token[0])
	return r >= 'a' && r <= 'z'
}
