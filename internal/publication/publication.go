// Package publication defines the core domain types for bibliography entries.
package publication

import (
	"strings"
	"time"
)

// Author represents one author of a publication.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// FullName returns the display form "First Last".
func (a Author) FullName() string {
	if a.First == "" {
		return a.Last
	}
	return a.First + " " + a.Last
}

// Link is a URL with an optional display title, parsed from a link-valued
// extension field.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Publication is one bibliography entry after display-oriented
// normalization. It is rebuilt from the bibliography file on every pass;
// the citation cache file is the persisted source of truth for counts.
type Publication struct {
	Key       string   `json:"key"`
	EntryType string   `json:"entry_type"` // after _subtype override
	Year      int      `json:"year"`       // 0 if unknown
	Title     string   `json:"title"`      // braces stripped
	Authors   []Author `json:"authors"`

	// AuthorsText is the joined display string ("A, B, and C").
	AuthorsText string `json:"authors_text"`

	Abstract string `json:"abstract,omitempty"`
	Keywords string `json:"keywords,omitempty"`

	// Venue is the journal or proceedings name, used for bulk filtering.
	Venue string `json:"venue,omitempty"`

	// Text is the HTML-formatted citation produced by the style engine.
	Text string `json:"text"`
	// BibTeX is the canonical BibTeX form with extension fields stripped.
	BibTeX string `json:"bibtex"`

	// Extension fields (underscore-prefixed in the source entry).
	Award   string `json:"award,omitempty"`
	PDF     string `json:"pdf,omitempty"`
	Demo    string `json:"demo,omitempty"`
	Toolbox string `json:"toolbox,omitempty"`
	Slides  string `json:"slides,omitempty"`
	Poster  string `json:"poster,omitempty"`
	School  string `json:"school,omitempty"`
	Course  string `json:"course,omitempty"`
	Clients string `json:"clients,omitempty"`

	WebPublication *Link `json:"webpublication,omitempty"`
	Link1          *Link `json:"link1,omitempty"`
	Link2          *Link `json:"link2,omitempty"`
	Link3          *Link `json:"link3,omitempty"`
	Link4          *Link `json:"link4,omitempty"`
	Data1          *Link `json:"data1,omitempty"`
	Data2          *Link `json:"data2,omitempty"`
	Code1          *Link `json:"code1,omitempty"`
	Code2          *Link `json:"code2,omitempty"`
	Code3          *Link `json:"code3,omitempty"`
	Code4          *Link `json:"code4,omitempty"`
	Code5          *Link `json:"code5,omitempty"`
	Git1           *Link `json:"git1,omitempty"`
	Git2           *Link `json:"git2,omitempty"`
	Git3           *Link `json:"git3,omitempty"`
	Git4           *Link `json:"git4,omitempty"`
	Git5           *Link `json:"git5,omitempty"`

	// Extra holds any remaining underscore-prefixed fields verbatim,
	// keyed without the leading underscore.
	Extra map[string]string `json:"extra,omitempty"`

	// Derived display fields, computed once via Classify.
	TypeLabel      string `json:"type_label"`
	TypeLabelShort string `json:"type_label_short"`
	TypeCSS        string `json:"type_css"`
	TypeGroupID    int    `json:"type_group_id"` // -1 if no group matched
	TypeGroupName  string `json:"type_group_name,omitempty"`

	// Citation augmentation, populated from the citation cache.
	Cites          int       `json:"cites"`
	CitationURL    string    `json:"citation_url,omitempty"`
	CiteUpdateTime time.Time `json:"-"`
}

// ParseLink splits a link-valued extension field on the "##" delimiter into
// URL and title. A value without the delimiter is a bare URL.
func ParseLink(text string) *Link {
	if text == "" {
		return nil
	}
	parts := strings.SplitN(text, "##", 2)
	if len(parts) == 2 {
		return &Link{URL: parts[0], Title: parts[1]}
	}
	return &Link{URL: text}
}

// JoinAuthors joins author display names into a single string:
// one author unchanged, two joined with "and", three or more with an
// Oxford comma before the final author.
func JoinAuthors(authors []Author) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.FullName()
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
