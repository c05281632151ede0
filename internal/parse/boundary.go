package parse

import "strings"

// DetectEntries splits one chapter block into individual citation entries.
//
// Primary strategy: bracketed citation-key anchors mark entry starts; an
// entry spans from its anchor to the start of the next anchor or the end
// of the block. Anchors appearing mid-sentence (in-text references rather
// than entry heads) are suppressed unless a line break or paragraph-start
// whitespace precedes them within the lookback window.
//
// Fallback strategy, used when a chapter contains no anchors at all:
// blank-line-delimited paragraphs, each treated as a candidate entry.
func DetectEntries(block ChapterBlock, cfg Config) ([]RawEntry, []Diagnostic) {
	text := block.RawText
	matches := cfg.CitationKeyPattern.FindAllStringIndex(text, -1)

	lookback := cfg.AnchorLookback
	if lookback <= 0 {
		lookback = DefaultAnchorLookback
	}

	var anchors [][]int
	for _, m := range matches {
		if anchorAtEntryStart(text, m[0], lookback) {
			anchors = append(anchors, m)
		}
	}

	if len(anchors) == 0 {
		return paragraphEntries(block), nil
	}

	var (
		entries []RawEntry
		diags   []Diagnostic
	)
	for i, anchor := range anchors {
		start := anchor[0]
		end := len(text)
		if i+1 < len(anchors) {
			end = anchors[i+1][0]
		}

		key := strings.Trim(text[anchor[0]:anchor[1]], "[]")
		body := normalizeEntryText(text[anchor[1]:end])
		if body == "" {
			diags = append(diags, Diagnostic{
				Kind:      DiagDroppedEmptyEntry,
				ChapterID: block.ChapterID,
				Key:       key,
				Message:   "citation key with no entry text dropped",
			})
			continue
		}

		entries = append(entries, RawEntry{
			ChapterID:   block.ChapterID,
			CitationKey: key,
			RawText:     body,
			StartOffset: start,
			EndOffset:   end,
		})
	}

	return entries, diags
}

// anchorAtEntryStart reports whether the anchor at start is preceded by a
// line break or only paragraph whitespace within the lookback window. A key
// cited mid-sentence fails this test and is not an entry boundary.
func anchorAtEntryStart(text string, start, lookback int) bool {
	if start == 0 {
		return true
	}
	for i := start - 1; i >= 0 && start-i <= lookback; i-- {
		switch text[i] {
		case '\n':
			return true
		case ' ', '\t':
			// keep scanning
		default:
			return false
		}
	}
	// Only whitespace all the way to the front of the block.
	return start <= lookback
}

// paragraphEntries is the zero-anchor fallback: each blank-line-delimited
// paragraph becomes a candidate entry with no citation key.
func paragraphEntries(block ChapterBlock) []RawEntry {
	var entries []RawEntry

	offset := 0
	for _, para := range strings.Split(block.RawText, "\n\n") {
		body := normalizeEntryText(para)
		if body != "" {
			entries = append(entries, RawEntry{
				ChapterID:   block.ChapterID,
				RawText:     body,
				StartOffset: offset,
				EndOffset:   offset + len(para),
			})
		}
		offset += len(para) + 2
	}

	return entries
}

// normalizeEntryText flattens an entry span to a single-line string: the
// line breaks inside an entry are layout, not structure.
func normalizeEntryText(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
