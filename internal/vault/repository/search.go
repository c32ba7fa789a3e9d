// Package repository provides SQLite-backed document persistence.
package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

// DefaultSearchLimit caps search results when the caller passes none.
const DefaultSearchLimit = 50

// snippetRadius is the context window around a fallback-scan match.
const snippetRadius = 40

// SearchResult is one ranked search hit.
type SearchResult struct {
	Document *domain.Document `json:"document"`

	// Rank orders results; higher is more relevant.
	Rank float64 `json:"rank"`

	// Snippet is a short excerpt around the first match.
	Snippet string `json:"snippet"`

	// MatchedFields names the fields the query hit (title, content, metadata).
	MatchedFields []string `json:"matched_fields"`
}

// Search finds live documents matching the query, skipping offset
// hits for pagination. With the FTS index available it uses bm25
// ranking; otherwise every live document is loaded, decrypted and
// scanned.
func (r *Repository) Search(ctx context.Context, query string, limit, offset int) ([]*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("search query is empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	if r.fts {
		return r.searchFTS(ctx, query, limit, offset)
	}
	return r.searchScan(ctx, query, limit, offset)
}

// searchFTS queries the FTS5 index.
func (r *Repository) searchFTS(ctx context.Context, query string, limit, offset int) ([]*SearchResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.doc_id, -bm25(documents_fts),
		       snippet(documents_fts, 2, '[', ']', '…', 10)
		FROM documents_fts f
		JOIN documents d ON d.id = f.doc_id
		WHERE documents_fts MATCH ? AND d.deleted = 0
		ORDER BY bm25(documents_fts)
		LIMIT ? OFFSET ?`, ftsQuote(query), limit, offset)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer rows.Close()

	type hit struct {
		id      string
		rank    float64
		snippet string
	}
	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.id, &h.rank, &h.snippet); err != nil {
			return nil, domain.ErrStorage.WithCause(err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	results := make([]*SearchResult, 0, len(hits))
	for _, h := range hits {
		doc, err := r.Get(ctx, h.id)
		if err != nil {
			return nil, err
		}
		results = append(results, &SearchResult{
			Document:      doc,
			Rank:          h.rank,
			Snippet:       h.snippet,
			MatchedFields: matchedFields(doc, query),
		})
	}
	return results, nil
}

// ftsQuote turns free text into a safe FTS5 MATCH expression by
// quoting every term, so query operators cannot be injected.
func ftsQuote(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

// searchScan is the linear fallback used when no FTS index exists,
// which is always the case with encryption at rest.
func (r *Repository) searchScan(ctx context.Context, query string, limit, offset int) ([]*SearchResult, error) {
	docs, err := r.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var results []*SearchResult
	for _, doc := range docs {
		score, snippet, fields := scoreDocument(doc, needle)
		if score == 0 {
			continue
		}
		results = append(results, &SearchResult{
			Document:      doc,
			Rank:          score,
			Snippet:       snippet,
			MatchedFields: fields,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rank > results[j].Rank
	})
	if offset >= len(results) {
		return nil, nil
	}
	results = results[offset:]
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scoreDocument counts case-insensitive occurrences, weighting title
// hits above content hits.
func scoreDocument(doc *domain.Document, needle string) (score float64, snippet string, fields []string) {
	title := strings.ToLower(doc.Title)
	content := strings.ToLower(string(doc.Content))

	if n := strings.Count(title, needle); n > 0 {
		score += float64(n) * 2
		fields = append(fields, "title")
	}
	if n := strings.Count(content, needle); n > 0 {
		score += float64(n)
		fields = append(fields, "content")
		snippet = excerpt(string(doc.Content), strings.Index(content, needle), len(needle))
	}
	for _, v := range doc.Metadata {
		if strings.Contains(strings.ToLower(v), needle) {
			score++
			fields = append(fields, "metadata")
			break
		}
	}

	if snippet == "" && score > 0 {
		snippet = doc.Title
	}
	return score, snippet, fields
}

// excerpt cuts a window around a match position.
func excerpt(text string, pos, matchLen int) string {
	start := pos - snippetRadius
	if start < 0 {
		start = 0
	}
	end := pos + matchLen + snippetRadius
	if end > len(text) {
		end = len(text)
	}

	out := text[start:end]
	if start > 0 {
		out = "…" + out
	}
	if end < len(text) {
		out += "…"
	}
	return out
}

// matchedFields reports which document fields contain the query.
func matchedFields(doc *domain.Document, query string) []string {
	needle := strings.ToLower(query)
	var fields []string
	if strings.Contains(strings.ToLower(doc.Title), needle) {
		fields = append(fields, "title")
	}
	if strings.Contains(strings.ToLower(string(doc.Content)), needle) {
		fields = append(fields, "content")
	}
	for _, v := range doc.Metadata {
		if strings.Contains(strings.ToLower(v), needle) {
			fields = append(fields, "metadata")
			break
		}
	}
	return fields
}
