package scholar

import (
	"testing"

	"github.com/toni-heittola/btex/internal/config"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acoustic Scene Classification.", "acoustic scene classification"},
		{"Context-dependent sound events", "contextdependent sound events"},
		{"  Padded title  ", "padded title"},
		{"already normal", "already normal"},
	}

	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchResults(t *testing.T) {
	results := []Result{
		{Title: "Some other paper", TotalCitations: 99},
		{Title: "Acoustic Scene Classification.", TotalCitations: 40, ClusterID: "first", PDFURL: "https://example.org/a.pdf"},
		{Title: "Acoustic scene classification", TotalCitations: 2, ClusterID: "second"},
	}

	merged, ok := MatchResults(results, "Acoustic scene classification")
	if !ok {
		t.Fatal("MatchResults() found no match")
	}
	// Duplicate index entries sum their counts; first match keeps the ids.
	if merged.TotalCitations != 42 {
		t.Errorf("TotalCitations = %d, want 42", merged.TotalCitations)
	}
	if merged.ClusterID != "first" {
		t.Errorf("ClusterID = %q, want the first match's id", merged.ClusterID)
	}

	if _, ok := MatchResults(results, "No such paper"); ok {
		t.Error("MatchResults() matched a missing title")
	}
	if _, ok := MatchResults(nil, "Anything"); ok {
		t.Error("MatchResults() matched against no results")
	}
}

func TestNewBackend(t *testing.T) {
	if _, err := NewBackend(config.Scholar{Backend: "scrape"}); err != nil {
		t.Errorf("scrape backend: %v", err)
	}
	if _, err := NewBackend(config.Scholar{Backend: ""}); err != nil {
		t.Errorf("default backend: %v", err)
	}
	if _, err := NewBackend(config.Scholar{Backend: "serpapi", APIKey: "k"}); err != nil {
		t.Errorf("serpapi backend: %v", err)
	}
	if _, err := NewBackend(config.Scholar{Backend: "carrier-pigeon"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
