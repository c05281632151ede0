// Package pdf extracts plain per-page text from PDF files. It is the
// input boundary of the parsing engine: everything downstream consumes
// the page text stream, never PDF bytes.
package pdf

import (
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/ellis-chang/academic-reference-extractor/internal/parse"
)

// ExtractPages extracts text from every page of a PDF file, in page order.
// Pages that yield no text are included with empty text so page indexes
// stay aligned with the document.
func ExtractPages(filePath string) ([]parse.RawPage, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	return readPages(r)
}

// ExtractPagesReader extracts per-page text from a PDF reader.
func ExtractPagesReader(r io.ReaderAt, size int64) ([]parse.RawPage, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}

	return readPages(pdfReader)
}

func readPages(r *pdf.Reader) ([]parse.RawPage, error) {
	pages := make([]parse.RawPage, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)

		text := ""
		if !page.V.IsNull() {
			// Extraction failures on individual pages are not fatal;
			// the page contributes no text and the run continues.
			if t, err := page.GetPlainText(nil); err == nil {
				text = t
			}
		}

		pages = append(pages, parse.RawPage{Index: i, Text: text})
	}

	return pages, nil
}
