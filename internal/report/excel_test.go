package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

func sampleRecords() []reference.EnrichedRecord {
	return []reference.EnrichedRecord{
		{
			CitationRecord: reference.CitationRecord{
				RecordID:    1,
				ChapterID:   "1",
				CitationKey: "Smith '23",
				FirstAuthor: &reference.AuthorName{Last: "Smith", FirstInitials: "J."},
				LastAuthor:  &reference.AuthorName{Last: "Doe", FirstInitials: "A."},
				Title:       "A Great Paper",
				Year:        2023,
				Venue:       "Journal of Tests",
				GrammarTag:  reference.TagStandard,
				Confidence:  0.95,
			},
			FirstAuthorInfo: &reference.AuthorInfo{
				Name:        "J. Smith",
				Affiliation: "Test University",
				Department:  "Computer Science",
				Email:       "jsmith@test.edu",
				Confidence:  0.85,
				Source:      "semantic_scholar",
			},
		},
		{
			CitationRecord: reference.CitationRecord{
				RecordID:    2,
				ChapterID:   "2",
				CitationKey: "Cryptic '99",
				GrammarTag:  reference.TagUnmatched,
				RawText:     "an entry no grammar understands",
			},
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(sampleRecords(), path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("reading %s: %v", SheetName, err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 records", len(rows))
	}

	header := rows[0]
	if len(header) != len(columns) {
		t.Fatalf("header has %d columns, want %d", len(header), len(columns))
	}
	if header[0] != "Chapter" || header[4] != "First Author" || header[13] != "Source" {
		t.Errorf("header = %v", header)
	}

	first := rows[1]
	if first[0] != "1" || first[1] != "Smith '23" || first[2] != "A Great Paper" {
		t.Errorf("row 1 = %v", first)
	}
	if first[4] != "J. Smith" || first[5] != "Test University" || first[7] != "jsmith@test.edu" {
		t.Errorf("first author cells = %v", first[4:8])
	}
	if first[8] != "A. Doe" {
		t.Errorf("last author cell = %q, want A. Doe", first[8])
	}
	if first[12] != "0.85" {
		t.Errorf("confidence cell = %q, want lookup confidence 0.85", first[12])
	}
	if first[13] != "semantic_scholar" {
		t.Errorf("source cell = %q", first[13])
	}

	second := rows[2]
	if second[0] != "2" || second[1] != "Cryptic '99" {
		t.Errorf("row 2 = %v", second)
	}
	if len(second) > 12 && second[12] != "" {
		t.Errorf("confidence cell = %q, want empty without lookup data", second[12])
	}
}

func TestWriteConfidenceFromLookups(t *testing.T) {
	records := []reference.EnrichedRecord{
		{
			CitationRecord: reference.CitationRecord{
				RecordID:    1,
				ChapterID:   "1",
				CitationKey: "Chen '20",
				FirstAuthor: &reference.AuthorName{Last: "Chen", FirstInitials: "L."},
				GrammarTag:  reference.TagStandard,
				Confidence:  0.95,
			},
			FirstAuthorInfo: &reference.AuthorInfo{Name: "L. Chen", Confidence: 0.4, Source: "semantic_scholar"},
		},
		{
			CitationRecord: reference.CitationRecord{
				RecordID:    2,
				ChapterID:   "1",
				CitationKey: "Ortiz '18",
				FirstAuthor: &reference.AuthorName{Last: "Ortiz", FirstInitials: "M."},
				LastAuthor:  &reference.AuthorName{Last: "Webb", FirstInitials: "K."},
				GrammarTag:  reference.TagStandard,
				Confidence:  0.95,
			},
			FirstAuthorInfo: &reference.AuthorInfo{Name: "M. Ortiz", Confidence: 0.5, Source: "dblp"},
			LastAuthorInfo:  &reference.AuthorInfo{Name: "K. Webb", Confidence: 0.25, Source: "dblp"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(records, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("reading %s: %v", SheetName, err)
	}

	// The cell carries the lookup confidence, not the parse confidence.
	if rows[1][12] != "0.4" {
		t.Errorf("single-lookup confidence = %q, want 0.4", rows[1][12])
	}
	// Both authors resolved: the cell averages the two lookups.
	if rows[2][12] != "0.375" {
		t.Errorf("averaged confidence = %q, want 0.375", rows[2][12])
	}
}

func TestWriteSummarySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(sampleRecords(), path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SummarySheetName)
	if err != nil {
		t.Fatalf("reading %s: %v", SummarySheetName, err)
	}

	if rows[0][0] != "Total references" || rows[0][1] != "2" {
		t.Errorf("totals row = %v", rows[0])
	}
	if rows[1][1] != "1" {
		t.Errorf("parsed row = %v", rows[1])
	}
	if rows[2][1] != "1" {
		t.Errorf("unmatched row = %v", rows[2])
	}
}

func TestWriteSummaryChapterOrder(t *testing.T) {
	records := []reference.EnrichedRecord{
		{CitationRecord: reference.CitationRecord{RecordID: 1, ChapterID: "10", GrammarTag: reference.TagStandard, Confidence: 0.95}},
		{CitationRecord: reference.CitationRecord{RecordID: 2, ChapterID: "9", GrammarTag: reference.TagStandard, Confidence: 0.95}},
		{CitationRecord: reference.CitationRecord{RecordID: 3, ChapterID: "2", GrammarTag: reference.TagStandard, Confidence: 0.95}},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(records, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SummarySheetName)
	if err != nil {
		t.Fatalf("reading %s: %v", SummarySheetName, err)
	}

	// Chapter rows follow the header at row 5 and must sort numerically.
	var chapters []string
	for _, row := range rows[5:] {
		if len(row) > 0 {
			chapters = append(chapters, row[0])
		}
	}
	want := []string{"2", "9", "10"}
	if len(chapters) != len(want) {
		t.Fatalf("chapters = %v, want %v", chapters, want)
	}
	for i := range want {
		if chapters[i] != want[i] {
			t.Errorf("chapter %d = %q, want %q", i, chapters[i], want[i])
		}
	}
}

func TestWriteEmptyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(nil, path); err != nil {
		t.Fatalf("Write() with no records error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("reading %s: %v", SheetName, err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}
