// Package citecache persists per-publication citation counts in a flat
// YAML side file. The file is the single persisted source of truth for
// citation data; records are keyed by (lowercased title, year) and are
// never deleted, only updated in place.
package citecache

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMalformed indicates the cache file exists but cannot be parsed.
var ErrMalformed = errors.New("malformed citation cache")

// Scholar is the scholar-data block of one cache record.
type Scholar struct {
	TotalCitations  int    `yaml:"total_citations"`
	ClusterID       string `yaml:"cluster_id,omitempty"`
	PDFURL          string `yaml:"pdf_url,omitempty"`
	CitationListURL string `yaml:"citation_list_url,omitempty"`
}

// Entry is one cached citation record.
type Entry struct {
	Title      string  `yaml:"title"` // lowercased
	Year       int     `yaml:"year"`
	LastUpdate int64   `yaml:"last_update"` // unix seconds
	Scholar    Scholar `yaml:"scholar"`
}

// CitationURL returns the citation-list URL, falling back to a URL derived
// from the cluster id when no explicit URL was recorded.
func (e *Entry) CitationURL() string {
	if e.Scholar.CitationListURL != "" {
		return e.Scholar.CitationListURL
	}
	if e.Scholar.ClusterID != "" {
		return "https://scholar.google.com/scholar?cites=" + e.Scholar.ClusterID
	}
	return ""
}

// Stale reports whether the record's last update is older than timeout at
// the given instant. A record exactly timeout old is still fresh, so a
// rebuild at the boundary does not trigger a refresh storm.
func (e *Entry) Stale(timeout time.Duration, now time.Time) bool {
	age := now.Unix() - e.LastUpdate
	return age > int64(timeout.Seconds())
}

// legacy format: a mapping with the record list under a top-level "data" key.
type legacyFile struct {
	Data []Entry `yaml:"data"`
}

// Load reads the cache file. A missing file is a normal condition and
// yields an empty record list; a file that exists but cannot be parsed in
// either the bare-list or legacy "data"-wrapped form yields ErrMalformed.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var legacy legacyFile
	if err := yaml.Unmarshal(data, &legacy); err == nil && legacy.Data != nil {
		return legacy.Data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformed, path)
}

// Save overwrites the cache file with the full record list in bare-list
// form. Writes are wholesale; concurrent writers are not coordinated.
func Save(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding citation cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Find returns the first record matching the title (case-insensitive) and
// year, or nil. Absence is a normal result.
func Find(entries []Entry, title string, year int) *Entry {
	title = strings.ToLower(title)
	for i := range entries {
		if entries[i].Year == year && strings.ToLower(entries[i].Title) == title {
			return &entries[i]
		}
	}
	return nil
}

// Upsert merges scholar data into the record for (title, year), refreshing
// its update timestamp. The merge is additive: zero-valued incoming fields
// never overwrite existing values. When no record matches and insertNew is
// set, a new record is appended; otherwise the list is returned unchanged.
func Upsert(entries []Entry, title string, year int, sch Scholar, insertNew bool, now time.Time) []Entry {
	if e := Find(entries, title, year); e != nil {
		merge(&e.Scholar, sch)
		e.LastUpdate = now.Unix()
		return entries
	}
	if !insertNew {
		return entries
	}
	return append(entries, Entry{
		Title:      strings.ToLower(title),
		Year:       year,
		LastUpdate: now.Unix(),
		Scholar:    sch,
	})
}

func merge(dst *Scholar, src Scholar) {
	if src.TotalCitations != 0 {
		dst.TotalCitations = src.TotalCitations
	}
	if src.ClusterID != "" {
		dst.ClusterID = src.ClusterID
	}
	if src.PDFURL != "" {
		dst.PDFURL = src.PDFURL
	}
	if src.CitationListURL != "" {
		dst.CitationListURL = src.CitationListURL
	}
}
