package reference

import "testing"

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  AuthorName
	}{
		{
			name:  "comma with initials",
			input: "Smith, J.",
			want:  AuthorName{Raw: "Smith, J.", Last: "Smith", FirstInitials: "J."},
		},
		{
			name:  "comma with full first name",
			input: "Turing, Alan",
			want:  AuthorName{Raw: "Turing, Alan", Last: "Turing", FirstInitials: "Alan"},
		},
		{
			name:  "initials first",
			input: "J. P. Smith",
			want:  AuthorName{Raw: "J. P. Smith", Last: "Smith", FirstInitials: "J. P."},
		},
		{
			name:  "first last",
			input: "John Smith",
			want:  AuthorName{Raw: "John Smith", Last: "Smith", FirstInitials: "John"},
		},
		{
			name:  "single token",
			input: "Smith",
			want:  AuthorName{Raw: "Smith", Last: "Smith"},
		},
		{
			name:  "trailing initials mean surname first",
			input: "Ong C.S.",
			want:  AuthorName{Raw: "Ong C.S.", Last: "Ong", FirstInitials: "C.S."},
		},
		{
			name:  "multi-word surname via comma",
			input: "Van der Maaten, L.",
			want:  AuthorName{Raw: "Van der Maaten, L.", Last: "Van der Maaten", FirstInitials: "L."},
		},
		{
			name:  "whitespace trimmed",
			input: "  Smith, J.  ",
			want:  AuthorName{Raw: "Smith, J.", Last: "Smith", FirstInitials: "J."},
		},
		{
			name:  "empty string",
			input: "",
			want:  AuthorName{},
		},
		{
			name:  "punctuation only",
			input: " ., ",
			want:  AuthorName{Raw: ".,"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAuthorName(tt.input)
			if got != tt.want {
				t.Errorf("ParseAuthorName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		author AuthorName
		want   string
	}{
		{
			name:   "first and last",
			author: AuthorName{Last: "Smith", FirstInitials: "J."},
			want:   "J. Smith",
		},
		{
			name:   "last only",
			author: AuthorName{Last: "Smith"},
			want:   "Smith",
		},
		{
			name:   "unstructured falls back to raw",
			author: AuthorName{Raw: "some raw text"},
			want:   "some raw text",
		},
		{
			name:   "elided marker",
			author: ElidedAuthor(),
			want:   "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.author.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestElidedAuthor(t *testing.T) {
	a := ElidedAuthor()
	if !a.Elided {
		t.Error("ElidedAuthor().Elided = false, want true")
	}
	if a.Last != "" || a.FirstInitials != "" {
		t.Errorf("elided author carries name parts: %+v", a)
	}
}
