// Package report renders enriched citation records into an Excel workbook.
package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// SheetName is the main worksheet holding one row per citation record.
const SheetName = "Author Information"

// SummarySheetName holds per-chapter totals and parse coverage.
const SummarySheetName = "Summary"

// columns is the fixed column order of the report; consumers depend on it.
var columns = []struct {
	header string
	width  float64
}{
	{"Chapter", 12},
	{"Citation Key", 16},
	{"Paper Title", 50},
	{"Year", 8},
	{"First Author", 22},
	{"First Author Affiliation", 32},
	{"First Author Department", 26},
	{"First Author Email", 26},
	{"Last Author", 22},
	{"Last Author Affiliation", 32},
	{"Last Author Department", 26},
	{"Last Author Email", 26},
	{"Confidence", 11},
	{"Source", 16},
}

// Write renders the records into an xlsx workbook at the given path.
func Write(records []reference.EnrichedRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)

	if err := writeHeader(f); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writeRow(f, i+2, rec); err != nil {
			return err
		}
	}
	if err := writeSummary(f, records); err != nil {
		return err
	}

	// Keep the header visible while scrolling.
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freezing header row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cell := name + "1"
		if err := f.SetCellValue(SheetName, cell, col.header); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, row int, rec reference.EnrichedRecord) error {
	first := authorCells(rec.FirstAuthor, rec.FirstAuthorInfo)
	last := authorCells(rec.LastAuthor, rec.LastAuthorInfo)

	values := []any{
		rec.ChapterID,
		rec.CitationKey,
		rec.Title,
		yearCell(rec.Year),
		first[0], first[1], first[2], first[3],
		last[0], last[1], last[2], last[3],
		confidenceCell(rec),
		sourceCell(rec),
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

// authorCells produces the name/affiliation/department/email cell group
// for one author slot.
func authorCells(name *reference.AuthorName, info *reference.AuthorInfo) [4]any {
	var cells [4]any
	if name == nil {
		return cells
	}
	cells[0] = name.DisplayName()
	if info != nil {
		cells[1] = info.Affiliation
		cells[2] = info.Department
		cells[3] = info.Email
	}
	return cells
}

func yearCell(year int) any {
	if year == 0 {
		return ""
	}
	return year
}

// confidenceCell averages the lookup confidences of the resolved authors.
// Records with no resolved author get an empty cell.
func confidenceCell(rec reference.EnrichedRecord) any {
	var sum float64
	n := 0
	if rec.FirstAuthorInfo != nil {
		sum += rec.FirstAuthorInfo.Confidence
		n++
	}
	if rec.LastAuthorInfo != nil {
		sum += rec.LastAuthorInfo.Confidence
		n++
	}
	if n == 0 {
		return ""
	}
	return sum / float64(n)
}

// sourceCell reports where the enrichment data came from, preferring the
// first author's source.
func sourceCell(rec reference.EnrichedRecord) string {
	if rec.FirstAuthorInfo != nil && rec.FirstAuthorInfo.Source != "" {
		return rec.FirstAuthorInfo.Source
	}
	if rec.LastAuthorInfo != nil && rec.LastAuthorInfo.Source != "" {
		return rec.LastAuthorInfo.Source
	}
	return ""
}

// writeSummary adds per-chapter totals and overall parse coverage.
func writeSummary(f *excelize.File, records []reference.EnrichedRecord) error {
	if _, err := f.NewSheet(SummarySheetName); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	perChapter := make(map[string]int)
	unmatched := 0
	for _, rec := range records {
		perChapter[rec.ChapterID]++
		if rec.GrammarTag == reference.TagUnmatched {
			unmatched++
		}
	}

	chapters := make([]string, 0, len(perChapter))
	for ch := range perChapter {
		chapters = append(chapters, ch)
	}
	// Chapter IDs are numeric strings; sort them as numbers so chapter 10
	// follows chapter 9.
	sort.Slice(chapters, func(i, j int) bool {
		a, errA := strconv.Atoi(chapters[i])
		b, errB := strconv.Atoi(chapters[j])
		if errA != nil || errB != nil {
			return chapters[i] < chapters[j]
		}
		return a < b
	})

	rows := [][]any{
		{"Total references", len(records)},
		{"Parsed", len(records) - unmatched},
		{"Unmatched", unmatched},
		{},
		{"Chapter", "References"},
	}
	for _, ch := range chapters {
		rows = append(rows, []any{ch, perChapter[ch]})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheetName, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
