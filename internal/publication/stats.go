package publication

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// YearCount is a per-year tally, ordered by year ascending.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Stats holds aggregate statistics over one publication list.
type Stats struct {
	Publications  int         `json:"publications"`
	PubsPerYear   []YearCount `json:"pubs_per_year"`
	CitesPerYear  []YearCount `json:"cites_per_year"`
	Cites         int         `json:"cites"`
	UniqueAuthors int         `json:"unique_authors"`

	// TypeCounts tallies publications by type label.
	TypeCounts map[string]int `json:"types"`
	// TypesHTMLList renders the group tallies as an inline HTML list.
	TypesHTMLList string `json:"types_html_list"`

	// CiteUpdate is the oldest citation-cache update across the list;
	// zero when no entry carries citation data.
	CiteUpdate       time.Time `json:"-"`
	CiteUpdateString string    `json:"cite_update_string,omitempty"`
}

// ComputeStats builds aggregate statistics for a publication list against
// the given grouping table.
func ComputeStats(pubs []Publication, groups []TypeGroup) *Stats {
	s := &Stats{
		Publications: len(pubs),
		TypeCounts:   make(map[string]int),
	}

	pubsByYear := make(map[int]int)
	citesByYear := make(map[int]int)
	seenAuthors := make(map[string]bool)

	for _, p := range pubs {
		if p.Year != 0 {
			pubsByYear[p.Year]++
			citesByYear[p.Year] += p.Cites
		}
		s.Cites += p.Cites
		for _, a := range p.Authors {
			seenAuthors[a.FullName()] = true
		}
		s.TypeCounts[p.TypeLabel]++

		if !p.CiteUpdateTime.IsZero() {
			if s.CiteUpdate.IsZero() || p.CiteUpdateTime.Before(s.CiteUpdate) {
				s.CiteUpdate = p.CiteUpdateTime
			}
		}
	}

	s.UniqueAuthors = len(seenAuthors)
	s.PubsPerYear = sortedCounts(pubsByYear)
	s.CitesPerYear = sortedCounts(citesByYear)

	var parts []string
	for _, g := range groups {
		if n, ok := s.TypeCounts[g.Label]; ok {
			parts = append(parts, fmt.Sprintf("<em>%s</em> : %d", g.Name, n))
		}
	}
	s.TypesHTMLList = strings.Join(parts, ", ")

	if !s.CiteUpdate.IsZero() {
		s.CiteUpdateString = s.CiteUpdate.Format("02.01.2006")
	}

	return s
}

func sortedCounts(m map[int]int) []YearCount {
	out := make([]YearCount, 0, len(m))
	for y, n := range m {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
