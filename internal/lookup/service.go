package lookup

import (
	"context"
	"strings"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// Source confidence tiers: a hit from a curated database outranks an LLM
// inference, and an S2 hit with an affiliation outranks one without.
const (
	confidenceS2WithAffiliation = 0.85
	confidenceDBLP              = 0.8
	confidenceS2NameOnly        = 0.4
)

// Service resolves author names against the available providers in
// priority order: Semantic Scholar, then DBLP, then the LLM fallback.
// A nil client disables that provider; results are cached when a cache
// is attached.
type Service struct {
	s2    *S2Client
	dblp  *DBLPClient
	llm   *LLMExtractor
	cache *Cache
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithS2 sets the Semantic Scholar client.
func WithS2(c *S2Client) ServiceOption {
	return func(s *Service) { s.s2 = c }
}

// WithDBLP sets the DBLP client.
func WithDBLP(c *DBLPClient) ServiceOption {
	return func(s *Service) { s.dblp = c }
}

// WithLLM sets the LLM extractor.
func WithLLM(e *LLMExtractor) ServiceOption {
	return func(s *Service) { s.llm = e }
}

// WithCache attaches a lookup cache.
func WithCache(c *Cache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// NewService creates a lookup service. With no options it queries
// Semantic Scholar and DBLP anonymously and skips the LLM.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		s2:   NewS2Client(),
		dblp: NewDBLPClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LookupAuthor resolves one author of a citation record to affiliation
// and contact data. Provider failures are not fatal: each source is tried
// in turn and the best available answer wins. When everything misses, a
// zero-confidence result with just the name is returned.
func (s *Service) LookupAuthor(ctx context.Context, author reference.AuthorName, rec reference.CitationRecord) *reference.AuthorInfo {
	name := author.DisplayName()
	if author.Elided || strings.TrimSpace(name) == "" || name == "..." {
		return nil
	}

	if s.cache != nil {
		if info, ok := s.cache.Get(name); ok {
			return info
		}
	}

	info := s.resolve(ctx, name, rec)

	if s.cache != nil && info.Confidence > 0 {
		// Cache write failures only cost a repeat lookup next run.
		_ = s.cache.Put(name, info)
	}
	return info
}

func (s *Service) resolve(ctx context.Context, name string, rec reference.CitationRecord) *reference.AuthorInfo {
	best := &reference.AuthorInfo{Name: name}

	if s.s2 != nil {
		if info := s.lookupS2(ctx, name); info != nil {
			if info.Affiliation != "" {
				return info
			}
			best = info
		}
	}

	if s.dblp != nil {
		if hit, err := s.dblp.SearchAuthor(ctx, name); err == nil && len(hit.Affiliations) > 0 {
			return &reference.AuthorInfo{
				Name:        name,
				Affiliation: hit.Affiliations[0],
				Confidence:  confidenceDBLP,
				Source:      "dblp",
			}
		}
	}

	if s.llm != nil && s.llm.Enabled() {
		if info, err := s.llm.ExtractAuthorInfo(ctx, name, rec); err == nil && info.Affiliation != "" {
			info.Name = name
			return info
		}
	}

	return best
}

// lookupS2 searches Semantic Scholar for the author and pulls affiliation
// details from the author record when the search hit carries none.
func (s *Service) lookupS2(ctx context.Context, name string) *reference.AuthorInfo {
	hit, err := s.s2.SearchAuthor(ctx, name)
	if err != nil {
		return nil
	}

	if len(hit.Affiliations) == 0 && hit.AuthorID != "" {
		if detail, err := s.s2.GetAuthor(ctx, hit.AuthorID); err == nil {
			hit = detail
		}
	}

	info := &reference.AuthorInfo{
		Name:       name,
		Confidence: confidenceS2NameOnly,
		Source:     "semantic_scholar",
	}
	if len(hit.Affiliations) > 0 {
		info.Affiliation = hit.Affiliations[0]
		info.Confidence = confidenceS2WithAffiliation
	}
	return info
}

// EnrichRecords resolves the first and last authors of every record.
// Lookups hit external services, so ctx cancellation stops the loop early;
// already-enriched records are returned along with the error.
func (s *Service) EnrichRecords(ctx context.Context, records []reference.CitationRecord) ([]reference.EnrichedRecord, error) {
	enriched := make([]reference.EnrichedRecord, 0, len(records))

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return enriched, err
		}

		e := reference.EnrichedRecord{CitationRecord: rec}
		if rec.FirstAuthor != nil {
			e.FirstAuthorInfo = s.LookupAuthor(ctx, *rec.FirstAuthor, rec)
		}
		if rec.LastAuthor != nil {
			e.LastAuthorInfo = s.LookupAuthor(ctx, *rec.LastAuthor, rec)
		}
		enriched = append(enriched, e)
	}

	return enriched, nil
}
