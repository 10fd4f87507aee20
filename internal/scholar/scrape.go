package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/toni-heittola/btex/internal/config"
)

const (
	// scrapeBaseURL is the scholarly search endpoint being scraped.
	scrapeBaseURL = "https://scholar.google.com"

	// scrapeRateLimit bounds outbound requests per second. The random
	// inter-query pacing in the reconciler is the real throttle; this is
	// a floor against accidental bursts.
	scrapeRateLimit = 0.5

	// scrapeUserAgent is a plain browser user agent. The endpoint serves
	// a degraded page to obvious robots.
	scrapeUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

// ScrapeBackend screen-scrapes the search service's result pages. It is
// guesswork over unstable markup; callers must treat every miss as a
// normal outcome.
type ScrapeBackend struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	transport  *http.Transport
	proxies    []string
	proxyIdx   int
}

// ScrapeOption configures a ScrapeBackend.
type ScrapeOption func(*ScrapeBackend)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ScrapeOption {
	return func(b *ScrapeBackend) {
		b.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ScrapeOption {
	return func(b *ScrapeBackend) {
		b.httpClient = hc
	}
}

// NewScrapeBackend creates the scraping backend. When cfg lists proxies,
// requests go through the current proxy and Rotate advances to the next.
func NewScrapeBackend(cfg config.Scholar, opts ...ScrapeOption) *ScrapeBackend {
	transport := &http.Transport{}
	b := &ScrapeBackend{
		httpClient: &http.Client{Timeout: 60 * time.Second, Transport: transport},
		limiter:    rate.NewLimiter(rate.Limit(scrapeRateLimit), 1),
		baseURL:    scrapeBaseURL,
		transport:  transport,
		proxies:    cfg.Proxies,
	}
	if len(b.proxies) > 0 {
		b.setProxy(b.proxies[0])
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Rotate switches to the next configured proxy. Returns false when no
// proxies are configured, meaning a retry would hit the same path again.
func (b *ScrapeBackend) Rotate() bool {
	if len(b.proxies) == 0 {
		return false
	}
	b.proxyIdx = (b.proxyIdx + 1) % len(b.proxies)
	b.setProxy(b.proxies[b.proxyIdx])
	return true
}

func (b *ScrapeBackend) setProxy(raw string) {
	proxyURL, err := url.Parse(raw)
	if err != nil {
		return
	}
	b.transport.Proxy = http.ProxyURL(proxyURL)
}

// SearchByTitleAndAuthor queries the service with a quoted title and the
// first author's name and parses the result page.
func (b *ScrapeBackend) SearchByTitleAndAuthor(ctx context.Context, title, author string) ([]Result, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("hl", "en")
	q.Set("as_sdt", "0,5")
	q.Set("q", fmt.Sprintf("%q %s", title, author))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/scholar?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying search service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusForbidden:
		// Captcha interstitial or block page.
		return nil, fmt.Errorf("%w: status %d", ErrMaxTries, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return b.parseResults(doc), nil
}

// parseResults extracts the uniform result shape from one result page.
func (b *ScrapeBackend) parseResults(doc *goquery.Document) []Result {
	var results []Result
	doc.Find(".gs_r").Each(func(_ int, row *goquery.Selection) {
		ri := row.Find(".gs_ri")
		if ri.Length() == 0 {
			return
		}
		r := Result{Title: cleanResultTitle(ri.Find(".gs_rt").Text())}
		if r.Title == "" {
			return
		}

		// "Cited by N" footer link carries the count and the cluster id.
		ri.Find(".gs_fl a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			text := strings.TrimSpace(a.Text())
			if !strings.HasPrefix(text, "Cited by ") {
				return true
			}
			if n, err := strconv.Atoi(strings.TrimPrefix(text, "Cited by ")); err == nil {
				r.TotalCitations = n
			}
			if href, ok := a.Attr("href"); ok {
				r.CitationListURL = b.baseURL + href
				if u, err := url.Parse(href); err == nil {
					r.ClusterID = u.Query().Get("cites")
				}
			}
			return false
		})

		// Right-hand column direct document link, when present.
		if href, ok := row.Find(".gs_ggs a").First().Attr("href"); ok {
			r.PDFURL = href
		}

		results = append(results, r)
	})
	return results
}

// cleanResultTitle strips the "[PDF]", "[HTML]", "[CITATION]" prefixes the
// result page puts in front of titles.
func cleanResultTitle(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]")
		if end < 0 {
			break
		}
		s = strings.TrimSpace(s[end+1:])
	}
	return s
}
