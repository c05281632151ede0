package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

func TestLLMExtractAuthorInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("anthropic-version header missing")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Write([]byte(`{"content": [{"type": "text", "text": "Here is the information:\n{\"name\": \"N. Wiener\", \"affiliation\": \"MIT\", \"department\": \"Mathematics\", \"email\": \"\", \"confidence\": 0.7}"}]}`))
	}))
	defer server.Close()

	e := NewLLMExtractor(WithLLMAPIKey("test-key"), WithLLMBaseURL(server.URL))
	rec := reference.CitationRecord{Title: "Cybernetics", Year: 1948, RawText: "Wiener, N. (1948). Cybernetics. MIT Press."}

	info, err := e.ExtractAuthorInfo(context.Background(), "N. Wiener", rec)
	if err != nil {
		t.Fatalf("ExtractAuthorInfo() error = %v", err)
	}
	if info.Affiliation != "MIT" || info.Department != "Mathematics" {
		t.Errorf("info = %+v", info)
	}
	if info.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", info.Confidence)
	}
	if info.Source != "llm" {
		t.Errorf("Source = %q, want llm", info.Source)
	}
}

func TestLLMDisabledWithoutKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	e := NewLLMExtractor()
	if e.Enabled() {
		t.Error("Enabled() = true without an API key")
	}
	_, err := e.ExtractAuthorInfo(context.Background(), "anyone", reference.CitationRecord{})
	if !errors.Is(err, ErrAuthError) {
		t.Errorf("error = %v, want ErrAuthError", err)
	}
}

func TestParseLLMAuthorInfo(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    reference.AuthorInfo
		wantErr bool
	}{
		{
			name: "bare object",
			text: `{"name": "A", "affiliation": "B", "confidence": 0.5}`,
			want: reference.AuthorInfo{Name: "A", Affiliation: "B", Confidence: 0.5},
		},
		{
			name: "code fence and prose",
			text: "Sure! ```json\n{\"name\": \"A\", \"affiliation\": \"B\", \"confidence\": 0.5}\n```",
			want: reference.AuthorInfo{Name: "A", Affiliation: "B", Confidence: 0.5},
		},
		{
			name: "confidence clamped high",
			text: `{"name": "A", "confidence": 3.0}`,
			want: reference.AuthorInfo{Name: "A", Confidence: 1},
		},
		{
			name: "confidence clamped low",
			text: `{"name": "A", "confidence": -0.5}`,
			want: reference.AuthorInfo{Name: "A", Confidence: 0},
		},
		{
			name:    "no JSON object",
			text:    "I cannot determine this.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLLMAuthorInfo(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLLMAuthorInfo() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}
