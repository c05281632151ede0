package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

const (
	// DBLPBaseURL is the DBLP author search API endpoint.
	DBLPBaseURL = "https://dblp.org/search/author/api"

	// DBLPRateLimit keeps well under DBLP's informal courtesy limit.
	DBLPRateLimit = 2.0
)

// DBLPClient queries the DBLP author search API. DBLP needs no API key.
type DBLPClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// DBLPOption configures a DBLPClient.
type DBLPOption func(*DBLPClient)

// WithDBLPBaseURL sets a custom base URL (for testing).
func WithDBLPBaseURL(u string) DBLPOption {
	return func(c *DBLPClient) {
		c.baseURL = u
	}
}

// WithDBLPHTTPClient sets a custom HTTP client.
func WithDBLPHTTPClient(hc *http.Client) DBLPOption {
	return func(c *DBLPClient) {
		c.httpClient = hc
	}
}

// NewDBLPClient creates a DBLP author search client.
func NewDBLPClient(opts ...DBLPOption) *DBLPClient {
	c := &DBLPClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DBLPRateLimit), 1),
		baseURL:    DBLPBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DBLPAuthor is one hit from the author search.
type DBLPAuthor struct {
	Name         string
	Affiliations []string
	URL          string
}

// dblpResponse mirrors the nested shape of DBLP's JSON search results.
type dblpResponse struct {
	Result struct {
		Hits struct {
			Hit []struct {
				Info struct {
					Author string `json:"author"`
					URL    string `json:"url"`
					Notes  struct {
						Note dblpNoteList `json:"note"`
					} `json:"notes"`
				} `json:"info"`
			} `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// dblpNoteList tolerates DBLP collapsing a one-element note list to a
// single note.
type dblpNoteList []dblpNote

func (l *dblpNoteList) UnmarshalJSON(data []byte) error {
	var notes []dblpNote
	if err := json.Unmarshal(data, &notes); err == nil {
		*l = notes
		return nil
	}
	var single dblpNote
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("cannot unmarshal DBLP notes: %s", string(data))
	}
	*l = dblpNoteList{single}
	return nil
}

// dblpNote tolerates DBLP returning either a note object or a bare string.
type dblpNote struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

func (n *dblpNote) UnmarshalJSON(data []byte) error {
	type plain dblpNote
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*n = dblpNote(p)
		return nil
	}
	// Some entries carry the note as a bare string.
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cannot unmarshal DBLP note: %s", string(data))
	}
	n.Text = s
	return nil
}

// SearchAuthor looks up an author by name and returns the first hit with
// its affiliation notes, or ErrNotFound.
func (c *DBLPClient) SearchAuthor(ctx context.Context, name string) (*DBLPAuthor, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":      {name},
		"format": {"json"},
		"h":      {"5"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dblp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: "dblp", StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var parsed dblpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	hits := parsed.Result.Hits.Hit
	if len(hits) == 0 {
		return nil, ErrNotFound
	}

	info := hits[0].Info
	author := &DBLPAuthor{Name: info.Author, URL: info.URL}
	for _, note := range info.Notes.Note {
		if note.Type == "affiliation" && note.Text != "" {
			author.Affiliations = append(author.Affiliations, note.Text)
		}
	}
	return author, nil
}
