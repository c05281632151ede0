package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

const (
	// AnthropicBaseURL is the Anthropic messages API endpoint.
	AnthropicBaseURL = "https://api.anthropic.com/v1/messages"

	anthropicVersion = "2023-06-01"
	llmModel         = "claude-3-5-haiku-latest"
	llmMaxTokens     = 512
)

// LLMExtractor asks a language model to infer author affiliation details
// from the citation context. It is the lowest-priority, lowest-confidence
// source and is disabled entirely when no API key is configured.
type LLMExtractor struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// LLMOption configures an LLMExtractor.
type LLMOption func(*LLMExtractor)

// WithLLMAPIKey sets the API key.
func WithLLMAPIKey(key string) LLMOption {
	return func(e *LLMExtractor) {
		e.apiKey = key
	}
}

// WithLLMBaseURL sets a custom endpoint (for testing).
func WithLLMBaseURL(u string) LLMOption {
	return func(e *LLMExtractor) {
		e.baseURL = u
	}
}

// WithLLMModel overrides the default model.
func WithLLMModel(model string) LLMOption {
	return func(e *LLMExtractor) {
		e.model = model
	}
}

// NewLLMExtractor creates an extractor. The API key is read from the
// ANTHROPIC_API_KEY environment variable when not set explicitly.
func NewLLMExtractor(opts ...LLMOption) *LLMExtractor {
	e := &LLMExtractor{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    AnthropicBaseURL,
		model:      llmModel,
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		e.apiKey = key
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enabled reports whether the extractor has an API key to work with.
func (e *LLMExtractor) Enabled() bool {
	return e.apiKey != ""
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// llmAuthorInfo is the JSON shape the model is instructed to return.
type llmAuthorInfo struct {
	Name        string  `json:"name"`
	Affiliation string  `json:"affiliation"`
	Department  string  `json:"department"`
	Email       string  `json:"email"`
	Confidence  float64 `json:"confidence"`
}

// ExtractAuthorInfo asks the model for affiliation details of one author
// given the citation it appeared in. Fields the model reports as unknown
// come back empty.
func (e *LLMExtractor) ExtractAuthorInfo(ctx context.Context, authorName string, rec reference.CitationRecord) (*reference.AuthorInfo, error) {
	if !e.Enabled() {
		return nil, ErrAuthError
	}

	prompt := fmt.Sprintf(`Based on the following academic reference, provide information about the author %q.

Reference: %s
Paper title: %s
Year: %d

Extract or infer the author's affiliation. Use an empty string for anything that cannot be reliably determined. Respond with only a JSON object:
{"name": "...", "affiliation": "...", "department": "...", "email": "...", "confidence": 0.0}

confidence is your certainty in [0,1] that the affiliation is correct for this author at publication time.`,
		authorName, rec.RawText, rec.Title, rec.Year)

	body, err := json.Marshal(anthropicRequest{
		Model:     e.model,
		MaxTokens: llmMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrAuthError
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, &APIError{Provider: "llm", StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	info, err := parseLLMAuthorInfo(text)
	if err != nil {
		return nil, err
	}
	info.Source = "llm"
	return info, nil
}

// parseLLMAuthorInfo pulls the JSON object out of the model's reply,
// tolerating surrounding prose or code fences.
func parseLLMAuthorInfo(text string) (*reference.AuthorInfo, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrInvalidResponse)
	}

	var raw llmAuthorInfo
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if raw.Confidence < 0 {
		raw.Confidence = 0
	}
	if raw.Confidence > 1 {
		raw.Confidence = 1
	}

	return &reference.AuthorInfo{
		Name:        raw.Name,
		Affiliation: raw.Affiliation,
		Department:  raw.Department,
		Email:       raw.Email,
		Confidence:  raw.Confidence,
	}, nil
}
