package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	// S2BaseURL is the Semantic Scholar Graph API base URL.
	S2BaseURL = "https://api.semanticscholar.org/graph/v1"

	// S2RateLimit is 1 request per second, the unauthenticated quota.
	S2RateLimit = 1.0

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// Fields requested for paper and author lookups.
	paperSearchFields  = "title,authors,year,venue"
	authorFields       = "name,affiliations,url,homepage,paperCount,citationCount"
	authorSearchFields = "name,affiliations,url,homepage,paperCount"
)

// S2Client is a rate-limited client for the Semantic Scholar Graph API.
type S2Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// S2Option configures an S2Client.
type S2Option func(*S2Client)

// WithS2APIKey sets the API key for authenticated requests.
func WithS2APIKey(key string) S2Option {
	return func(c *S2Client) {
		c.apiKey = key
	}
}

// WithS2HTTPClient sets a custom HTTP client.
func WithS2HTTPClient(hc *http.Client) S2Option {
	return func(c *S2Client) {
		c.httpClient = hc
	}
}

// WithS2BaseURL sets a custom base URL (for testing).
func WithS2BaseURL(u string) S2Option {
	return func(c *S2Client) {
		c.baseURL = u
	}
}

// NewS2Client creates a Semantic Scholar client. An API key is read from
// the S2_API_KEY environment variable when present.
func NewS2Client(opts ...S2Option) *S2Client {
	c := &S2Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(S2RateLimit), 1),
		baseURL:    S2BaseURL,
	}

	if key := os.Getenv("S2_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// S2Paper is a paper search result.
type S2Paper struct {
	PaperID string     `json:"paperId"`
	Title   string     `json:"title"`
	Year    int        `json:"year"`
	Venue   string     `json:"venue"`
	Authors []S2Author `json:"authors"`
}

// S2Author is an author as returned by the API.
type S2Author struct {
	AuthorID     string   `json:"authorId"`
	Name         string   `json:"name"`
	Affiliations []string `json:"affiliations"`
	URL          string   `json:"url"`
	Homepage     string   `json:"homepage"`
	PaperCount   int      `json:"paperCount"`
}

type s2SearchResponse[T any] struct {
	Total int `json:"total"`
	Data  []T `json:"data"`
}

// SearchPaper searches for a paper by title, optionally narrowed by year.
// Returns the best match or ErrNotFound.
func (c *S2Client) SearchPaper(ctx context.Context, title string, year int) (*S2Paper, error) {
	query := title
	if year > 0 {
		query = fmt.Sprintf("%s %d", title, year)
	}

	params := url.Values{
		"query":  {query},
		"limit":  {"5"},
		"fields": {paperSearchFields},
	}

	var resp s2SearchResponse[S2Paper]
	if err := c.get(ctx, "/paper/search", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Data[0], nil
}

// SearchAuthor searches for an author by name and returns the top match.
func (c *S2Client) SearchAuthor(ctx context.Context, name string) (*S2Author, error) {
	params := url.Values{
		"query":  {name},
		"limit":  {"5"},
		"fields": {authorSearchFields},
	}

	var resp s2SearchResponse[S2Author]
	if err := c.get(ctx, "/author/search", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Data[0], nil
}

// GetAuthor fetches detailed information for an author ID.
func (c *S2Client) GetAuthor(ctx context.Context, authorID string) (*S2Author, error) {
	params := url.Values{"fields": {authorFields}}

	var author S2Author
	if err := c.get(ctx, "/author/"+url.PathEscape(authorID), params, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

// get performs a rate-limited GET request and decodes the JSON response.
func (c *S2Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("semantic scholar request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthError
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{
			Provider:   "semantic scholar",
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
