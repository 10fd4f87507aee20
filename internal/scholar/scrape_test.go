package scholar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/toni-heittola/btex/internal/config"
)

const scrapeResultPage = `<html><body>
<div class="gs_r">
  <div class="gs_ggs"><a href="https://example.org/mesaros2018.pdf">[PDF] example.org</a></div>
  <div class="gs_ri">
    <h3 class="gs_rt"><a href="#">[PDF] Acoustic scene classification</a></h3>
    <div class="gs_fl">
      <a href="/scholar?cites=1234567890&amp;as_sdt=5">Cited by 42</a>
      <a href="/scholar?q=related">Related articles</a>
    </div>
  </div>
</div>
<div class="gs_r">
  <div class="gs_ri">
    <h3 class="gs_rt">Some unrelated paper</h3>
    <div class="gs_fl"><a href="/scholar?q=related">Related articles</a></div>
  </div>
</div>
</body></html>`

func TestScrapeBackend_SearchByTitleAndAuthor(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(scrapeResultPage))
	}))
	defer srv.Close()

	b := NewScrapeBackend(config.Scholar{}, WithBaseURL(srv.URL))
	results, err := b.SearchByTitleAndAuthor(context.Background(), "Acoustic scene classification", "Annamaria Mesaros")
	if err != nil {
		t.Fatalf("SearchByTitleAndAuthor() error: %v", err)
	}
	if gotQuery != `"Acoustic scene classification" Annamaria Mesaros` {
		t.Errorf("query = %q", gotQuery)
	}

	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}

	r := results[0]
	if r.Title != "Acoustic scene classification" {
		t.Errorf("Title = %q, [PDF] prefix should be stripped", r.Title)
	}
	if r.TotalCitations != 42 {
		t.Errorf("TotalCitations = %d, want 42", r.TotalCitations)
	}
	if r.ClusterID != "1234567890" {
		t.Errorf("ClusterID = %q", r.ClusterID)
	}
	if r.PDFURL != "https://example.org/mesaros2018.pdf" {
		t.Errorf("PDFURL = %q", r.PDFURL)
	}
	if r.CitationListURL == "" {
		t.Error("CitationListURL not set")
	}

	if results[1].TotalCitations != 0 {
		t.Errorf("uncited result TotalCitations = %d", results[1].TotalCitations)
	}
}

func TestScrapeBackend_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusForbidden, ErrMaxTries},
		{http.StatusInternalServerError, ErrInvalidResponse},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		b := NewScrapeBackend(config.Scholar{}, WithBaseURL(srv.URL))
		_, err := b.SearchByTitleAndAuthor(context.Background(), "Title", "Author")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: error = %v, want %v", tt.status, err, tt.want)
		}
		srv.Close()
	}
}

func TestScrapeBackend_Rotate(t *testing.T) {
	b := NewScrapeBackend(config.Scholar{})
	if b.Rotate() {
		t.Error("Rotate() without proxies should report false")
	}

	b = NewScrapeBackend(config.Scholar{Proxies: []string{"http://a:8080", "http://b:8080"}})
	if !b.Rotate() {
		t.Error("Rotate() with proxies should report true")
	}
	if b.proxyIdx != 1 {
		t.Errorf("proxyIdx = %d, want 1", b.proxyIdx)
	}
	b.Rotate()
	if b.proxyIdx != 0 {
		t.Errorf("proxyIdx = %d, rotation should wrap", b.proxyIdx)
	}
}

func TestCleanResultTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[PDF] Some title", "Some title"},
		{"[HTML][PDF] Some title", "Some title"},
		{"No prefix", "No prefix"},
	}
	for _, tt := range tests {
		if got := cleanResultTitle(tt.in); got != tt.want {
			t.Errorf("cleanResultTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
