package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// bibliographyPages is a small but representative input: running headers,
// two chapters behind markers, a hyphen-broken word and a mix of grammars.
func bibliographyPages() []RawPage {
	return []RawPage{
		{Index: 0, Text: "Collected References 1\n" +
			"---- Chapter 1 ----\n" +
			"[Smith '23] Smith, J., & Doe, A. (2023). A Great Paper. Journal of Tests.\n" +
			"[Wiener '48] Wiener, N. (1948). Cybernetics. MIT Press."},
		{Index: 1, Text: "Collected References 2\n" +
			"---- Chapter 2 ----\n" +
			"[Maaten '08] Van der Maaten, L.; Hinton, G. (2008). Visualizing data using t-SNE. JMLR.\n" +
			"[Brown '20] Brown, T., Mann, B., ... & Amodei, D. (2020). Language models are few-shot learn-\n" +
			"ers. NeurIPS.\n" +
			"[Cryptic '99] an entry no grammar understands"},
	}
}

func TestParseEndToEnd(t *testing.T) {
	records, diags := Parse(bibliographyPages(), DefaultConfig())

	if len(records) != 5 {
		t.Fatalf("got %d records, want 5: %+v", len(records), records)
	}

	wantChapters := []string{"1", "1", "2", "2", "2"}
	wantTags := []reference.GrammarTag{
		reference.TagStandard,
		reference.TagStandard,
		reference.TagSemicolon,
		reference.TagEtAl,
		reference.TagUnmatched,
	}
	for i, rec := range records {
		if rec.RecordID != i+1 {
			t.Errorf("record %d RecordID = %d, want %d", i, rec.RecordID, i+1)
		}
		if rec.ChapterID != wantChapters[i] {
			t.Errorf("record %d ChapterID = %q, want %q", i, rec.ChapterID, wantChapters[i])
		}
		if rec.GrammarTag != wantTags[i] {
			t.Errorf("record %d GrammarTag = %q, want %q", i, rec.GrammarTag, wantTags[i])
		}
	}

	// The hyphen-broken title was rejoined before field parsing.
	if records[3].Title != "Language models are few-shot learners" {
		t.Errorf("record 3 Title = %q", records[3].Title)
	}

	// Unmatched entry still emitted, with the year recovered from its key.
	last := records[4]
	if last.Confidence != 0 {
		t.Errorf("unmatched Confidence = %v, want 0", last.Confidence)
	}
	if last.Year != 1999 {
		t.Errorf("unmatched Year = %d, want 1999 from key", last.Year)
	}
	if CountKind(diags, DiagUnmatchedEntry) != 1 {
		t.Errorf("diagnostics = %v, want one unmatched diagnostic", diags)
	}

	// Running headers never leak into entry text.
	for _, rec := range records {
		if rec.RawText == "" {
			t.Errorf("record %d has empty raw text", rec.RecordID)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3

	first, firstDiags := Parse(bibliographyPages(), cfg)
	second, secondDiags := Parse(bibliographyPages(), cfg)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("records differ between identical runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(firstDiags, secondDiags); diff != "" {
		t.Errorf("diagnostics differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestParseConfidenceZeroIffUnmatched(t *testing.T) {
	records, _ := Parse(bibliographyPages(), DefaultConfig())
	for _, rec := range records {
		unmatched := rec.GrammarTag == reference.TagUnmatched
		zero := rec.Confidence == 0
		if unmatched != zero {
			t.Errorf("record %d: tag %q with confidence %v", rec.RecordID, rec.GrammarTag, rec.Confidence)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	records, diags := Parse(nil, DefaultConfig())
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if CountKind(diags, DiagEmptyInput) != 1 {
		t.Errorf("diagnostics = %v, want one empty-input diagnostic", diags)
	}
}

func TestParseNoMarkersSingleChapter(t *testing.T) {
	pages := []RawPage{{Index: 0, Text: "[Smith '23] Smith, J. (2023). A Great Paper. Journal of Tests."}}

	records, _ := Parse(pages, DefaultConfig())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ChapterID != FrontMatterChapter {
		t.Errorf("ChapterID = %q, want front matter %q", records[0].ChapterID, FrontMatterChapter)
	}
}

func TestParseMaxRefs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRefs = 2

	records, _ := Parse(bibliographyPages(), cfg)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}
