package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

func seedSearchDocs(t *testing.T, r *Repository) {
	t.Helper()
	ctx := context.Background()

	deploy := newDoc("doc-deploy", "Deployment runbook", "how to deploy the scheduler to production")
	deploy.Metadata = map[string]string{"category": "operations"}

	incident := newDoc("doc-incident", "Incident review", "the deploy failed and the deploy was rolled back")
	notes := newDoc("doc-notes", "Meeting notes", "quarterly planning discussion")

	for _, doc := range []*domain.Document{deploy, incident, notes} {
		if err := r.Create(ctx, doc); err != nil {
			t.Fatalf("Create(%s): %v", doc.ID, err)
		}
	}
}

func TestSearch_FTS(t *testing.T) {
	r := openPlainRepo(t)
	if !r.FullTextSearchEnabled() {
		t.Fatal("FTS should be enabled for plaintext repo")
	}
	seedSearchDocs(t, r)

	results, err := r.Search(context.Background(), "deploy", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search = %d results, want 2", len(results))
	}

	for _, res := range results {
		if res.Document.ID == "doc-notes" {
			t.Error("unrelated document matched")
		}
		if res.Snippet == "" {
			t.Errorf("%s: empty snippet", res.Document.ID)
		}
		if len(res.MatchedFields) == 0 {
			t.Errorf("%s: no matched fields", res.Document.ID)
		}
	}

	// Ranked best first
	for i := 1; i < len(results); i++ {
		if results[i].Rank > results[i-1].Rank {
			t.Error("results not ordered by rank")
		}
	}
}

func TestSearch_FTS_QueryOperatorsAreLiteral(t *testing.T) {
	r := openPlainRepo(t)
	seedSearchDocs(t, r)

	// FTS5 operators and stray quotes must not break the query
	for _, q := range []string{`deploy OR *`, `"deploy`, `deploy NEAR rollback`, `col:deploy`} {
		if _, err := r.Search(context.Background(), q, 10, 0); err != nil {
			t.Errorf("Search(%q) failed: %v", q, err)
		}
	}
}

func TestSearch_Scan(t *testing.T) {
	r := openEncryptedRepo(t)
	seedSearchDocs(t, r)

	results, err := r.Search(context.Background(), "deploy", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search = %d results, want 2", len(results))
	}

	// doc-incident has two content hits, doc-deploy has one content hit
	// plus a weighted title hit, so doc-deploy ranks first
	if results[0].Document.ID != "doc-deploy" {
		t.Errorf("top result = %s, want doc-deploy", results[0].Document.ID)
	}
	if !strings.Contains(results[0].Snippet, "deploy") {
		t.Errorf("snippet = %q, want match context", results[0].Snippet)
	}
}

func TestSearch_Scan_MetadataMatch(t *testing.T) {
	r := openEncryptedRepo(t)
	seedSearchDocs(t, r)

	results, err := r.Search(context.Background(), "operations", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Document.ID != "doc-deploy" {
		t.Fatalf("Search(metadata) = %+v, want doc-deploy", results)
	}
	found := false
	for _, f := range results[0].MatchedFields {
		if f == "metadata" {
			found = true
		}
	}
	if !found {
		t.Errorf("MatchedFields = %v, want metadata", results[0].MatchedFields)
	}
}

func TestSearch_ExcludesDeleted(t *testing.T) {
	for _, tt := range []struct {
		name string
		repo func(*testing.T) *Repository
	}{
		{"fts", openPlainRepo},
		{"scan", openEncryptedRepo},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.repo(t)
			ctx := context.Background()
			seedSearchDocs(t, r)

			if err := r.Delete(ctx, "doc-deploy"); err != nil {
				t.Fatalf("Delete: %v", err)
			}

			results, err := r.Search(ctx, "deploy", 10, 0)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			for _, res := range results {
				if res.Document.ID == "doc-deploy" {
					t.Error("soft-deleted document matched")
				}
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	r := openPlainRepo(t)

	if _, err := r.Search(context.Background(), "   ", 10, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Search(blank) = %v, want ErrInvalidArgument", err)
	}
}

func TestSearch_Offset(t *testing.T) {
	for _, tt := range []struct {
		name string
		repo func(*testing.T) *Repository
	}{
		{"fts", openPlainRepo},
		{"scan", openEncryptedRepo},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.repo(t)
			seedSearchDocs(t, r)
			ctx := context.Background()

			all, err := r.Search(ctx, "deploy", 10, 0)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(all) != 2 {
				t.Fatalf("Search = %d results, want 2", len(all))
			}

			second, err := r.Search(ctx, "deploy", 10, 1)
			if err != nil {
				t.Fatalf("Search(offset 1): %v", err)
			}
			if len(second) != 1 {
				t.Fatalf("Search(offset 1) = %d results, want 1", len(second))
			}
			if second[0].Document.ID != all[1].Document.ID {
				t.Errorf("offset 1 hit = %s, want %s", second[0].Document.ID, all[1].Document.ID)
			}

			if past, _ := r.Search(ctx, "deploy", 10, 5); len(past) != 0 {
				t.Errorf("Search(offset past end) = %d results, want 0", len(past))
			}
		})
	}
}

func TestSearch_Limit(t *testing.T) {
	r := openEncryptedRepo(t)
	seedSearchDocs(t, r)

	results, err := r.Search(context.Background(), "deploy", 1, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search(limit 1) = %d results, want 1", len(results))
	}
}
