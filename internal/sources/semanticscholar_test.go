// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/referee-engine/pkg/types"
)

// --- Query building ---

func TestBuildSemanticQuery(t *testing.T) {
	longTitle := strings.Repeat("backward stochastic differential equations ", 6) // > 200 chars

	tests := []struct {
		name string
		sig  Signals
		want string
	}{
		{"title preferred", Signals{Title: "Optimal Stopping", Keywords: []string{"ignored"}}, "Optimal Stopping"},
		{"title truncated to 200 chars", Signals{Title: longTitle}, strings.TrimSpace(longTitle[:200])},
		{"keyword fallback", Signals{Keywords: []string{"optimal stopping", "control"}}, "optimal stopping control"},
		{"empty", Signals{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildSemanticQuery(tt.sig); got != tt.want {
				t.Errorf("buildSemanticQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Request construction ---

func TestSemanticScholarRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total":0,"data":[]}`)
	}))
	defer ts.Close()

	old := semanticSearchBase
	semanticSearchBase = ts.URL
	defer func() { semanticSearchBase = old }()

	s := &SemanticScholarSource{Client: testClient(ts), APIKey: "sk_test"}
	_, err := s.Fetch(context.Background(), Signals{Title: "Optimal Stopping"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("query"); got != "Optimal Stopping" {
		t.Errorf("query param = %q", got)
	}
	if got := q.Get("limit"); got != "10" {
		t.Errorf("limit param = %q, want 10", got)
	}
	if got := q.Get("fields"); got != "title,authors" {
		t.Errorf("fields param = %q, want title,authors", got)
	}
	if got := capturedReq.Header.Get("x-api-key"); got != "sk_test" {
		t.Errorf("x-api-key header = %q", got)
	}
}

func TestSemanticScholarEmptyQuerySkipsNetwork(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"total":0,"data":[]}`)
	}))
	defer ts.Close()

	old := semanticSearchBase
	semanticSearchBase = ts.URL
	defer func() { semanticSearchBase = old }()

	s := &SemanticScholarSource{Client: testClient(ts)}
	candidates, err := s.Fetch(context.Background(), Signals{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %d, want 0", len(candidates))
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("network calls = %d, want 0", n)
	}
}

// --- Response mapping ---

func TestSemanticScholarCandidateMapping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"total": 2,
			"data": [
				{"paperId": "p1", "title": "Paper One", "authors": [{"authorId": "a1", "name": "Grace Chen"}, {"authorId": "a2", "name": "Jane Doe"}]},
				{"paperId": "p2", "title": "Paper Two", "authors": [{"authorId": "a3", "name": "Omar Haddad"}]}
			]
		}`)
	}))
	defer ts.Close()

	old := semanticSearchBase
	semanticSearchBase = ts.URL
	defer func() { semanticSearchBase = old }()

	sig := Signals{Title: "anything", AuthorNames: []string{"jane doe"}}
	s := &SemanticScholarSource{Client: testClient(ts)}
	candidates, err := s.Fetch(context.Background(), sig)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.Source != types.SourceSemanticScholar {
			t.Errorf("source = %q", c.Source)
		}
		if c.Institution != "" || c.ORCID != "" {
			t.Errorf("institution/orcid should be empty for this source, got %+v", c)
		}
	}
	if candidates[0].Name != "Grace Chen" || candidates[1].Name != "Omar Haddad" {
		t.Errorf("names = %q, %q", candidates[0].Name, candidates[1].Name)
	}
}
