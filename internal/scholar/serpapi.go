package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/toni-heittola/btex/internal/config"
)

const serpBaseURL = "https://serpapi.com/search.json"

// SerpBackend queries a hosted search-API service that proxies the same
// scholarly index. Same uniform result shape as the scraping backend, but
// an authenticated JSON API instead of guesswork over markup.
type SerpBackend struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
}

// SerpOption configures a SerpBackend.
type SerpOption func(*SerpBackend)

// WithSerpBaseURL sets a custom base URL (for testing).
func WithSerpBaseURL(u string) SerpOption {
	return func(b *SerpBackend) {
		b.baseURL = u
	}
}

// NewSerpBackend creates the JSON API backend using cfg.APIKey.
func NewSerpBackend(cfg config.Scholar, opts ...SerpOption) *SerpBackend {
	b := &SerpBackend{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		baseURL:    serpBaseURL,
		apiKey:     cfg.APIKey,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// serpResponse mirrors the fields used from the API's result document.
type serpResponse struct {
	OrganicResults []struct {
		Title       string `json:"title"`
		InlineLinks struct {
			CitedBy struct {
				Total   int    `json:"total"`
				CitesID string `json:"cites_id"`
				Link    string `json:"link"`
			} `json:"cited_by"`
		} `json:"inline_links"`
		Resources []struct {
			Link string `json:"link"`
		} `json:"resources"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// SearchByTitleAndAuthor runs one search and maps the response to the
// uniform result shape.
func (b *SerpBackend) SearchByTitleAndAuthor(ctx context.Context, title, author string) ([]Result, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("engine", "google_scholar")
	q.Set("q", fmt.Sprintf("%q %s", title, author))
	q.Set("api_key", b.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var body serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, body.Error)
	}

	results := make([]Result, 0, len(body.OrganicResults))
	for _, or := range body.OrganicResults {
		r := Result{
			Title:           or.Title,
			TotalCitations:  or.InlineLinks.CitedBy.Total,
			ClusterID:       or.InlineLinks.CitedBy.CitesID,
			CitationListURL: or.InlineLinks.CitedBy.Link,
		}
		if len(or.Resources) > 0 {
			r.PDFURL = or.Resources[0].Link
		}
		results = append(results, r)
	}
	return results, nil
}
