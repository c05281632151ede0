package parse

import "fmt"

// DiagnosticKind classifies a non-fatal condition observed during a run.
type DiagnosticKind string

const (
	// DiagEmptyInput means no extractable text was found on any page.
	DiagEmptyInput DiagnosticKind = "empty_input"

	// DiagUnmatchedEntry means an entry fell through all grammar matchers.
	// The record is still emitted with the unmatched tag.
	DiagUnmatchedEntry DiagnosticKind = "unmatched_entry"

	// DiagMalformedChapterMarker means an ambiguous marker was suppressed
	// as a likely table-of-contents or continuation artifact.
	DiagMalformedChapterMarker DiagnosticKind = "malformed_chapter_marker"

	// DiagDroppedEmptyEntry means a citation-key anchor had no body text
	// after it; the entry was excluded rather than emitted empty.
	DiagDroppedEmptyEntry DiagnosticKind = "dropped_empty_entry"
)

// Diagnostic is one non-fatal condition from a run. Nothing in the engine
// is fatal: diagnostics are collected and returned alongside the output so
// the caller can decide whether low coverage warrants aborting before the
// costlier enrichment stage.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	ChapterID string         `json:"chapter_id,omitempty"`
	Key       string         `json:"citation_key,omitempty"`
	Message   string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.ChapterID != "" {
		return fmt.Sprintf("%s (chapter %s): %s", d.Kind, d.ChapterID, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// CountKind returns how many diagnostics of the given kind are present.
func CountKind(diags []Diagnostic, kind DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
