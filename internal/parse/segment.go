package parse

import "strings"

// FrontMatterChapter is the implicit chapter holding any text that appears
// before the first chapter marker. It is never discarded.
const FrontMatterChapter = "0"

// Segment splits the normalized document into chapter-scoped bibliography
// blocks. Each marker line opens a new chapter and closes the previous one.
// A marker followed by another marker with fewer than MinChapterLines of
// content between them is suppressed as a false positive (a continuation
// or table-of-contents artifact). Documents without markers degrade to a
// single front-matter chapter rather than failing.
func Segment(doc NormalizedDocument, cfg Config) ([]ChapterBlock, []Diagnostic) {
	minLines := cfg.MinChapterLines
	if minLines <= 0 {
		minLines = DefaultMinChapterLines
	}

	var (
		blocks  []ChapterBlock
		diags   []Diagnostic
		current = ChapterBlock{ChapterID: FrontMatterChapter}
		body    []string
		content int // non-blank lines in the current block
	)

	flush := func() {
		current.RawText = strings.TrimRight(strings.Join(body, "\n"), "\n")
		// The front matter only exists if something preceded the first marker.
		if current.ChapterID != FrontMatterChapter || content > 0 {
			blocks = append(blocks, current)
		}
		body = body[:0]
		content = 0
	}

	for _, line := range doc.Lines {
		if line.ChapterID != "" {
			if current.ChapterID != FrontMatterChapter && content < minLines {
				// The previous marker opened a chapter with no body.
				diags = append(diags, Diagnostic{
					Kind:      DiagMalformedChapterMarker,
					ChapterID: current.ChapterID,
					Message:   "chapter marker with no intervening content suppressed",
				})
				body = body[:0]
				content = 0
			} else {
				flush()
			}
			current = ChapterBlock{ChapterID: line.ChapterID, Title: line.Text}
			continue
		}

		body = append(body, line.Text)
		if strings.TrimSpace(line.Text) != "" {
			content++
		}
	}
	flush()

	return blocks, diags
}
