// Package config defines the explicit settings struct passed into every
// component. There is no ambient global state: the struct is built once at
// process start from defaults, an optional YAML file, and environment
// overrides, then handed to each component by value or reference.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultCacheFilename is the citation cache file used when a marker does
// not name one.
const DefaultCacheFilename = "citation_cache.yaml"

// Scholar configures the external citation-count reconciliation.
type Scholar struct {
	// Active enables external queries at all. Cached counts are still
	// attached when disabled.
	Active bool `yaml:"active" envconfig:"BTEX_SCHOLAR_ACTIVE"`

	// FetchTimeoutSeconds is the staleness threshold for cached records.
	FetchTimeoutSeconds int64 `yaml:"fetch_timeout" envconfig:"BTEX_SCHOLAR_FETCH_TIMEOUT"`

	// MaxQueriesPerBatch caps external queries per page-processing pass.
	MaxQueriesPerBatch int `yaml:"max_queries_per_batch" envconfig:"BTEX_SCHOLAR_MAX_ENTRIES_PER_BATCH"`

	// PaceMinSeconds and PaceMaxSeconds bound the random delay slept
	// after each successful external query.
	PaceMinSeconds int `yaml:"pace_min" envconfig:"BTEX_SCHOLAR_PACE_MIN"`
	PaceMaxSeconds int `yaml:"pace_max" envconfig:"BTEX_SCHOLAR_PACE_MAX"`

	// CacheFilename is the default citation cache path.
	CacheFilename string `yaml:"cache_filename" envconfig:"BTEX_SCHOLAR_CACHE"`

	// PersistEmpty controls whether a no-results outcome is written to the
	// cache as a zero-citation record. Off, the entry is queried again on
	// every rebuild until a real result appears; on, the empty outcome is
	// remembered until it goes stale.
	PersistEmpty bool `yaml:"persist_empty" envconfig:"BTEX_SCHOLAR_PERSIST_EMPTY"`

	// Backend selects the search backend implementation: "scrape" or
	// "serpapi".
	Backend string `yaml:"backend" envconfig:"BTEX_SCHOLAR_BACKEND"`

	// APIKey authenticates the serpapi backend.
	APIKey string `yaml:"api_key" envconfig:"BTEX_SCHOLAR_API_KEY"`

	// Proxies, when non-empty, enables rotating-proxy mode: pacing sleeps
	// are skipped and a failed query rotates to the next proxy before
	// retrying.
	Proxies []string `yaml:"proxies" envconfig:"BTEX_SCHOLAR_PROXIES"`

	// ProxyRetries is the rotation count before giving up on one
	// publication for the pass.
	ProxyRetries int `yaml:"proxy_retries" envconfig:"BTEX_SCHOLAR_PROXY_RETRIES"`
}

// FetchTimeout returns the staleness threshold as a duration.
func (s Scholar) FetchTimeout() time.Duration {
	return time.Duration(s.FetchTimeoutSeconds) * time.Second
}

// RotatingProxy reports whether rotating-proxy mode is active.
func (s Scholar) RotatingProxy() bool {
	return len(s.Proxies) > 0
}

// Settings is the full plugin configuration.
type Settings struct {
	Scholar Scholar `yaml:"scholar"`

	// Minified selects the minified script/style include variants.
	Minified bool `yaml:"minified" envconfig:"BTEX_MINIFIED"`

	// FontAwesomeCDN adds the Font Awesome CDN stylesheet include.
	FontAwesomeCDN bool `yaml:"use_fontawesome_cdn" envconfig:"BTEX_USE_FONTAWESOME_CDN"`
}

// Default returns the built-in settings: scholar fetching on with a one
// week staleness window, ten queries per batch, 10-60 second pacing.
func Default() *Settings {
	return &Settings{
		Scholar: Scholar{
			Active:              true,
			FetchTimeoutSeconds: 7 * 24 * 60 * 60,
			MaxQueriesPerBatch:  10,
			PaceMinSeconds:      10,
			PaceMaxSeconds:      60,
			CacheFilename:       DefaultCacheFilename,
			Backend:             "scrape",
			ProxyRetries:        3,
		},
		Minified:       true,
		FontAwesomeCDN: true,
	}
}

// Load builds settings from defaults, then the YAML file at path ("" or a
// missing file is skipped), then environment variable overrides.
func Load(path string) (*Settings, error) {
	_ = godotenv.Load()

	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading settings %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing settings %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", s); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	return s, nil
}
