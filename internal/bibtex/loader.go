package bibtex

import (
	"strings"

	"go.uber.org/zap"

	"github.com/toni-heittola/btex/internal/publication"
)

// Loader turns a bibliography file into normalized publication records.
type Loader struct {
	Groups []publication.TypeGroup
	Log    *zap.Logger
}

// NewLoader creates a Loader over the given grouping table.
func NewLoader(groups []publication.TypeGroup, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Groups: groups, Log: log}
}

// Load parses the bibliography at path. A missing or unparseable file is
// logged and yields no publications; it is never fatal to the caller.
// Entries without a title are skipped with a warning.
func (l *Loader) Load(path string) []publication.Publication {
	db, err := ParseFile(path)
	if err != nil {
		l.Log.Warn("failed to load bibliography", zap.String("path", path), zap.Error(err))
		return nil
	}

	pubs := make([]publication.Publication, 0, len(db.Entries))
	for i := range db.Entries {
		e := &db.Entries[i]
		if !e.Has("title") {
			l.Log.Warn("skipping entry without title", zap.String("key", e.Key))
			continue
		}
		pubs = append(pubs, l.buildPublication(e))
	}
	return pubs
}

func (l *Loader) buildPublication(e *Entry) publication.Publication {
	entryType := e.Type
	if subtype := e.Get("_subtype"); subtype != "" {
		entryType = subtype
	}

	p := publication.Publication{
		Key:       e.Key,
		EntryType: entryType,
		Year:      e.Year(),
		Title:     StripBraces(e.Get("title")),
		Abstract:  e.Get("abstract"),
		Keywords:  e.Get("keywords"),
		Venue:     venueOf(e),
		Text:      FormatEntry(e),
		BibTeX:    Write(e),
	}

	for _, n := range e.Authors {
		p.Authors = append(p.Authors, publication.Author{First: n.First, Last: n.Last})
	}
	p.AuthorsText = cleanAuthorsText(publication.JoinAuthors(p.Authors))

	l.applyExtensionFields(&p, e)
	publication.Classify(&p, l.Groups)
	return p
}

// venueOf picks the first venue-like field the entry carries.
func venueOf(e *Entry) string {
	for _, name := range []string{"journal", "booktitle", "organization", "school", "institution"} {
		if v := e.Get(name); v != "" {
			return CleanText(v)
		}
	}
	return ""
}

// cleanAuthorsText normalizes escape sequences out of the joined author
// string. Best effort: cleanup never fails, at worst the text is unchanged.
func cleanAuthorsText(s string) string {
	if !strings.ContainsAny(s, `\{}`) {
		return s
	}
	return CleanText(s)
}

func (l *Loader) applyExtensionFields(p *publication.Publication, e *Entry) {
	links := map[string]**publication.Link{
		"_webpublication": &p.WebPublication,
		"_link1":          &p.Link1, "_link2": &p.Link2, "_link3": &p.Link3, "_link4": &p.Link4,
		"_data1": &p.Data1, "_data2": &p.Data2,
		"_code1": &p.Code1, "_code2": &p.Code2, "_code3": &p.Code3, "_code4": &p.Code4, "_code5": &p.Code5,
		"_git1": &p.Git1, "_git2": &p.Git2, "_git3": &p.Git3, "_git4": &p.Git4, "_git5": &p.Git5,
	}
	scalars := map[string]*string{
		"_award": &p.Award, "_pdf": &p.PDF, "_demo": &p.Demo,
		"_toolbox": &p.Toolbox, "_slides": &p.Slides, "_poster": &p.Poster,
		"_school": &p.School, "_course": &p.Course, "_clients": &p.Clients,
	}

	for _, f := range e.Fields {
		if !strings.HasPrefix(f.Name, "_") {
			continue
		}
		if dst, ok := links[f.Name]; ok {
			*dst = publication.ParseLink(f.Value)
			continue
		}
		if dst, ok := scalars[f.Name]; ok {
			*dst = f.Value
			continue
		}
		if f.Name == "_subtype" {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		p.Extra[strings.TrimPrefix(f.Name, "_")] = f.Value
	}
}
