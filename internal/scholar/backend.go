// Package scholar reconciles local publication records with citation
// counts from an external scholarly-search service. The service is an
// unofficial, rate-limited scraping target: everything here is best
// effort, and no failure in this package is fatal to page processing.
package scholar

import (
	"context"
	"strings"

	"github.com/toni-heittola/btex/internal/config"
)

// Result is the uniform result shape shared by all search backends.
type Result struct {
	Title           string
	TotalCitations  int
	ClusterID       string
	PDFURL          string
	CitationListURL string
}

// SearchBackend is the capability interface over the external search
// service. Implementations must be safe for sequential reuse; they are
// selected once at startup, not probed per call.
type SearchBackend interface {
	SearchByTitleAndAuthor(ctx context.Context, title, author string) ([]Result, error)
}

// ProxyRotating is implemented by backends that can switch to a new
// outbound proxy after a retryable failure.
type ProxyRotating interface {
	Rotate() bool
}

// NewBackend selects a backend implementation from configuration.
func NewBackend(cfg config.Scholar) (SearchBackend, error) {
	switch cfg.Backend {
	case "", "scrape":
		return NewScrapeBackend(cfg), nil
	case "serpapi":
		return NewSerpBackend(cfg), nil
	default:
		return nil, ErrUnavailable
	}
}

// NormalizeTitle prepares a title for exact matching against search
// results: lowercased, trailing period dropped, hyphens removed. The
// external index is inconsistent about hyphenation and terminal
// punctuation, so both sides are normalized the same way.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.TrimSuffix(t, ".")
	return strings.ReplaceAll(t, "-", "")
}

// MatchResults finds the results whose normalized title equals the local
// title. The service sometimes indexes the same publication more than
// once; duplicate matches have their citation counts summed rather than
// taking the first. The first match supplies the identifiers and URLs.
func MatchResults(results []Result, localTitle string) (Result, bool) {
	want := NormalizeTitle(localTitle)

	var merged Result
	found := false
	for _, r := range results {
		if NormalizeTitle(r.Title) != want {
			continue
		}
		if !found {
			merged = r
			found = true
			continue
		}
		merged.TotalCitations += r.TotalCitations
	}
	return merged, found
}
