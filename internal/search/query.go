package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Limits applied to search requests.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params configures a directory search.
type Params struct {
	Query  string
	Limit  int
	Offset int
}

// Result is a page of directory hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"tookMs"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a single matching library.
type Hit struct {
	Subdomain    string            `json:"subdomain"`
	Name         string            `json:"name"`
	Address      string            `json:"address,omitempty"`
	CustomDomain string            `json:"customDomain,omitempty"`
	Score        float64           `json:"score"`
	Highlights   map[string]string `json:"highlights,omitempty"`
}

// Search runs a directory query. An empty query matches every library,
// ordered by subdomain.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	offset := max(params.Offset, 0)

	q := strings.TrimSpace(params.Query)
	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, offset, false)
	req.Fields = []string{"subdomain", "name", "address", "custom_domain"}

	if q == "" {
		req.SortBy([]string{"subdomain"})
	} else {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
		req.Highlight.AddField("description")
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  q,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		hit := Hit{Subdomain: h.ID, Score: h.Score}
		if v, ok := h.Fields["name"].(string); ok {
			hit.Name = v
		}
		if v, ok := h.Fields["address"].(string); ok {
			hit.Address = v
		}
		if v, ok := h.Fields["custom_domain"].(string); ok {
			hit.CustomDomain = v
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, hit)
	}

	return result, nil
}

// buildQuery matches the name most strongly, then facilities, address and
// description, with fuzzy and prefix matches on the name for typos and
// type-ahead.
func buildQuery(q string) query.Query {
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	nameMatch := bleve.NewMatchQuery(q)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	facilityMatch := bleve.NewMatchQuery(q)
	facilityMatch.SetField("facilities")
	facilityMatch.SetBoost(1.5)

	addressMatch := bleve.NewMatchQuery(q)
	addressMatch.SetField("address")
	addressMatch.SetBoost(1.5)

	descMatch := bleve.NewMatchQuery(q)
	descMatch.SetField("description")

	keywordMatch := bleve.NewMatchQuery(q)
	keywordMatch.SetField("keywords")

	subdomainMatch := bleve.NewTermQuery(strings.ToLower(q))
	subdomainMatch.SetField("subdomain")
	subdomainMatch.SetBoost(2.0)

	queries := []query.Query{nameMatch, facilityMatch, addressMatch, descMatch, keywordMatch, subdomainMatch}

	fuzzy := bleve.NewMatchQuery(q)
	fuzzy.SetField("name")
	fuzzy.SetFuzziness(1)
	fuzzy.SetBoost(0.8)
	queries = append(queries, fuzzy)

	if len(q) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField("name")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
