package parse

import (
	"sync"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// chapterResult holds one chapter's detected entries and parsed fields,
// collected back into chapter order before assembly.
type chapterResult struct {
	entries []RawEntry
	fields  []ParsedFields
	diags   []Diagnostic
}

// Parse runs the full engine over the raw pages: normalize, segment,
// per-chapter boundary detection and field parsing, then assembly.
//
// Chapters are independent, so they fan out across a bounded worker pool
// and join in original chapter order; output is deterministic for
// identical input. No condition is fatal: the result may be empty or
// partially unmatched, with every anomaly reported in the diagnostics.
func Parse(pages []RawPage, cfg Config) ([]reference.CitationRecord, []Diagnostic) {
	doc, diags := Normalize(pages, cfg)
	blocks, segDiags := Segment(doc, cfg)
	diags = append(diags, segDiags...)

	results := make([]chapterResult, len(blocks))

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, block := range blocks {
		wg.Add(1)
		go func(i int, block ChapterBlock) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = parseChapter(block, cfg)
		}(i, block)
	}
	wg.Wait()

	var (
		entries []RawEntry
		fields  []ParsedFields
	)
	for _, r := range results {
		entries = append(entries, r.entries...)
		fields = append(fields, r.fields...)
		diags = append(diags, r.diags...)
	}

	records, asmDiags := Assemble(entries, fields, cfg)
	diags = append(diags, asmDiags...)
	return records, diags
}

// parseChapter detects entry boundaries and parses fields for one chapter.
func parseChapter(block ChapterBlock, cfg Config) chapterResult {
	entries, diags := DetectEntries(block, cfg)

	fields := make([]ParsedFields, len(entries))
	for i, entry := range entries {
		fields[i] = ParseFields(entry.RawText, cfg)
	}

	return chapterResult{entries: entries, fields: fields, diags: diags}
}
