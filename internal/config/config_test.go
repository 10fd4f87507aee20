package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()

	if !s.Scholar.Active {
		t.Error("scholar fetching should default on")
	}
	if s.Scholar.FetchTimeout() != 7*24*time.Hour {
		t.Errorf("FetchTimeout() = %v, want one week", s.Scholar.FetchTimeout())
	}
	if s.Scholar.MaxQueriesPerBatch != 10 {
		t.Errorf("MaxQueriesPerBatch = %d", s.Scholar.MaxQueriesPerBatch)
	}
	if s.Scholar.CacheFilename != DefaultCacheFilename {
		t.Errorf("CacheFilename = %q", s.Scholar.CacheFilename)
	}
	if s.Scholar.PersistEmpty {
		t.Error("persist_empty should default off")
	}
	if s.Scholar.Backend != "scrape" {
		t.Errorf("Backend = %q", s.Scholar.Backend)
	}
	if s.Scholar.RotatingProxy() {
		t.Error("no proxies configured by default")
	}
	if !s.Minified {
		t.Error("minified assets should default on")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btex.yaml")
	content := `scholar:
  active: false
  fetch_timeout: 3600
  max_queries_per_batch: 3
  backend: serpapi
  api_key: secret
  proxies:
    - http://proxy-a:8080
minified: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Scholar.Active {
		t.Error("active should be overridden to false")
	}
	if s.Scholar.FetchTimeout() != time.Hour {
		t.Errorf("FetchTimeout() = %v", s.Scholar.FetchTimeout())
	}
	if s.Scholar.Backend != "serpapi" || s.Scholar.APIKey != "secret" {
		t.Errorf("backend config = %q/%q", s.Scholar.Backend, s.Scholar.APIKey)
	}
	if !s.Scholar.RotatingProxy() {
		t.Error("proxies from file should enable rotating-proxy mode")
	}
	if s.Minified {
		t.Error("minified should be overridden to false")
	}

	// Values the file does not mention keep their defaults.
	if s.Scholar.PaceMinSeconds != 10 || s.Scholar.PaceMaxSeconds != 60 {
		t.Errorf("pacing window = [%d,%d], want defaults", s.Scholar.PaceMinSeconds, s.Scholar.PaceMaxSeconds)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Scholar.MaxQueriesPerBatch != 10 {
		t.Errorf("MaxQueriesPerBatch = %d, want default", s.Scholar.MaxQueriesPerBatch)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BTEX_SCHOLAR_MAX_ENTRIES_PER_BATCH", "25")
	t.Setenv("BTEX_SCHOLAR_API_KEY", "from-env")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Scholar.MaxQueriesPerBatch != 25 {
		t.Errorf("MaxQueriesPerBatch = %d, want env override 25", s.Scholar.MaxQueriesPerBatch)
	}
	if s.Scholar.APIKey != "from-env" {
		t.Errorf("APIKey = %q", s.Scholar.APIKey)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btex.yaml")
	if err := os.WriteFile(path, []byte("scholar: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}
