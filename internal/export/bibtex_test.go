package export

import (
	"strings"
	"testing"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

func TestToBibTeXArticle(t *testing.T) {
	rec := reference.CitationRecord{
		RecordID:    1,
		CitationKey: "Smith '23",
		FirstAuthor: &reference.AuthorName{Last: "Smith", FirstInitials: "J."},
		LastAuthor:  &reference.AuthorName{Last: "Doe", FirstInitials: "A."},
		Title:       "A Great Paper",
		Year:        2023,
		Venue:       "Journal of Tests",
		GrammarTag:  reference.TagStandard,
	}

	got := ToBibTeX(rec)

	wantLines := []string{
		"@article{Smith23,",
		"  author = {Smith, J. and Doe, A.},",
		"  title = {A Great Paper},",
		"  journal = {Journal of Tests},",
		"  year = {2023},",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line) {
			t.Errorf("output missing %q:\n%s", line, got)
		}
	}
}

func TestToBibTeXInproceedings(t *testing.T) {
	rec := reference.CitationRecord{
		RecordID:    2,
		CitationKey: "Lee '19a",
		FirstAuthor: &reference.AuthorName{Last: "Lee", FirstInitials: "K."},
		Title:       "A Conference Paper",
		Year:        2019,
		Venue:       "Proceedings of the Test Conference",
		GrammarTag:  reference.TagStandard,
	}

	got := ToBibTeX(rec)
	if !strings.HasPrefix(got, "@inproceedings{Lee19a,") {
		t.Errorf("entry head = %q, want inproceedings with key Lee19a", strings.SplitN(got, "\n", 2)[0])
	}
	if !strings.Contains(got, "  booktitle = {Proceedings of the Test Conference},") {
		t.Errorf("venue should render as booktitle:\n%s", got)
	}
}

func TestToBibTeXEtAlUsesOthers(t *testing.T) {
	rec := reference.CitationRecord{
		RecordID:    3,
		CitationKey: "Brown '20",
		FirstAuthor: &reference.AuthorName{Last: "Brown", FirstInitials: "T."},
		LastAuthor:  &reference.AuthorName{Last: "Amodei", FirstInitials: "D."},
		GrammarTag:  reference.TagEtAl,
	}

	got := ToBibTeX(rec)
	if !strings.Contains(got, "author = {Brown, T. and others and Amodei, D.}") {
		t.Errorf("elided authors should render as others:\n%s", got)
	}
}

func TestToBibTeXTranslator(t *testing.T) {
	rec := reference.CitationRecord{
		RecordID:    4,
		FirstAuthor: &reference.AuthorName{Last: "Al-Jazari"},
		Translator:  &reference.AuthorName{Last: "Hill", FirstInitials: "D. R."},
		Title:       "The Book of Knowledge of Ingenious Mechanical Devices",
		Year:        1979,
		GrammarTag:  reference.TagTranslation,
	}

	got := ToBibTeX(rec)
	if !strings.Contains(got, "  translator = {D. R. Hill},") {
		t.Errorf("translator field missing:\n%s", got)
	}
	if !strings.HasPrefix(got, "@article{ref4,") {
		t.Errorf("keyless record should use ref<id>:\n%s", got)
	}
}

func TestToBibTeXUnmatchedKeepsRawText(t *testing.T) {
	rec := reference.CitationRecord{
		RecordID:    5,
		CitationKey: "Cryptic '99",
		GrammarTag:  reference.TagUnmatched,
		RawText:     "an entry no grammar understands",
	}

	got := ToBibTeX(rec)
	if !strings.Contains(got, "  note = {an entry no grammar understands},") {
		t.Errorf("unmatched record should keep raw text in a note:\n%s", got)
	}
	if strings.Contains(got, "author =") {
		t.Errorf("unmatched record should have no author field:\n%s", got)
	}
}

func TestEscapeLatex(t *testing.T) {
	rec := reference.CitationRecord{
		RecordID:    6,
		FirstAuthor: &reference.AuthorName{Last: "Smith", FirstInitials: "J."},
		Title:       "Widgets & gadgets: 100% of the $budget",
		GrammarTag:  reference.TagStandard,
	}

	got := ToBibTeX(rec)
	if !strings.Contains(got, `title = {Widgets \& gadgets: 100\% of the \$budget}`) {
		t.Errorf("special characters not escaped:\n%s", got)
	}
}

func TestToBibTeXList(t *testing.T) {
	records := []reference.CitationRecord{
		{RecordID: 1, CitationKey: "A '20", GrammarTag: reference.TagStandard, Title: "First"},
		{RecordID: 2, CitationKey: "B '21", GrammarTag: reference.TagStandard, Title: "Second"},
	}

	got := ToBibTeXList(records)
	if strings.Count(got, "@article{") != 2 {
		t.Errorf("want two entries:\n%s", got)
	}
	if !strings.Contains(got, "}\n\n@article{B21,") {
		t.Errorf("entries should be blank-line separated:\n%s", got)
	}
}
