package reference

import "strings"

// AuthorName is a parsed but unresolved author name. Resolution to an
// identity (affiliation, contact) is the lookup service's job.
type AuthorName struct {
	Raw           string `json:"raw"`                      // As it appeared in the entry
	Last          string `json:"last,omitempty"`           // Family name
	FirstInitials string `json:"first_initials,omitempty"` // Given name or initials
	Elided        bool   `json:"elided,omitempty"`         // Middle author omitted via "... &"
}

// ElidedAuthor is the explicit placeholder for authors the source text
// omitted with an et-al-style ellipsis. We never invent names for them.
func ElidedAuthor() AuthorName {
	return AuthorName{Raw: "...", Elided: true}
}

// ParseAuthorName parses a single author string into structured parts.
//
// Supported formats:
//   - "Smith, J."      → last="Smith", initials="J."
//   - "Smith, John"    → last="Smith", initials="John"
//   - "J. Smith"       → last="Smith", initials="J."
//   - "John Smith"     → last="Smith", initials="John"
//   - "Smith"          → last="Smith"
//
// The raw string is preserved untouched.
func ParseAuthorName(raw string) AuthorName {
	name := AuthorName{Raw: strings.TrimSpace(raw)}
	s := strings.Trim(name.Raw, ".,;: ")
	if s == "" {
		return name
	}

	// "Last, First" form
	if idx := strings.Index(s, ","); idx > 0 {
		name.Last = strings.TrimSpace(s[:idx])
		name.FirstInitials = strings.TrimSpace(s[idx+1:])
		return name
	}

	parts := strings.Fields(s)
	if len(parts) == 1 {
		name.Last = parts[0]
		return name
	}

	// Initials-first form: "J. P. Smith"
	if isInitials(parts[0]) {
		name.Last = parts[len(parts)-1]
		name.FirstInitials = strings.Join(parts[:len(parts)-1], " ")
		return name
	}

	// "First [Middle] Last"; trailing initials ("Ong C.S.") mean last name first
	if isInitials(parts[len(parts)-1]) {
		name.Last = parts[0]
		name.FirstInitials = strings.Join(parts[1:], " ")
		return name
	}

	name.Last = parts[len(parts)-1]
	name.FirstInitials = strings.Join(parts[:len(parts)-1], " ")
	return name
}

// DisplayName renders the name as "First Last" for report rows and
// lookup queries. Returns the raw text when structure is unknown.
func (a AuthorName) DisplayName() string {
	if a.Elided {
		return "..."
	}
	if a.Last == "" {
		return a.Raw
	}
	if a.FirstInitials == "" {
		return a.Last
	}
	return a.FirstInitials + " " + a.Last
}

// isInitials reports whether a token looks like initials such as
// "J.", "J.P.", "C.S." or bare "JP".
func isInitials(tok string) bool {
	tok = strings.ReplaceAll(tok, ".", "")
	if tok == "" || len(tok) > 3 {
		return false
	}
	for _, r := range tok {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
