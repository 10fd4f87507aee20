// Package render expands publication-list templates into HTML fragments.
// Templates are Go text templates evaluated against a map context, so an
// unresolvable placeholder renders as empty instead of failing the page.
package render

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/toni-heittola/btex/internal/publication"
)

// Options carries the per-marker rendering configuration.
type Options struct {
	// Template is a built-in template name; ignored when UserTemplate is set.
	Template string
	// UserTemplate is inline template text from the marker element.
	UserTemplate string

	// Stats prepends the statistics panel.
	Stats bool
	// ScholarLink is the attribution link shown in the statistics panel.
	ScholarLink string

	// FirstVisibleYear hides year groups older than this (0 shows all).
	FirstVisibleYear int

	// TargetPage is the page single-item cross-links point at.
	TargetPage string
}

// Renderer expands templates over publication lists.
type Renderer struct {
	log *zap.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log}
}

// Render produces the HTML fragment for one marker. pubs is the (already
// filtered) publication list; stats may be nil when the statistics panel
// is off.
func (r *Renderer) Render(opts Options, pubs []publication.Publication, stats *publication.Stats, groups []publication.TypeGroup) (string, error) {
	text := opts.UserTemplate
	if strings.TrimSpace(text) == "" {
		builtin, ok := builtinTemplates[opts.Template]
		if !ok {
			return "", fmt.Errorf("unknown template %q", opts.Template)
		}
		text = builtin
	}
	if opts.Stats {
		text = statsTemplate(opts) + text
	}

	tmpl, err := template.New("btex").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, buildContext(opts, pubs, stats, groups)); err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}

	// Missing map keys render as "<no value>"; the contract is empty.
	return strings.ReplaceAll(b.String(), "<no value>", ""), nil
}

// buildContext assembles the template context. Everything is maps and
// slices so that user templates degrade gracefully on absent fields.
func buildContext(opts Options, pubs []publication.Publication, stats *publication.Stats, groups []publication.TypeGroup) map[string]any {
	items := make([]map[string]any, len(pubs))
	for i := range pubs {
		items[i] = itemContext(&pubs[i], opts)
	}

	ctx := map[string]any{
		"publications":       items,
		"years":              groupByYear(items),
		"groups":             groups,
		"first_visible_year": opts.FirstVisibleYear,
		"target_page":        opts.TargetPage,
		"meta":               map[string]any{},
	}
	if stats != nil {
		ctx["meta"] = metaContext(stats, opts)
	}
	return ctx
}

func itemContext(p *publication.Publication, opts Options) map[string]any {
	m := map[string]any{
		"key":              p.Key,
		"type":             p.EntryType,
		"year":             p.Year,
		"title":            p.Title,
		"authors_text":     p.AuthorsText,
		"text":             p.Text,
		"bibtex":           p.BibTeX,
		"abstract":         p.Abstract,
		"keywords":         p.Keywords,
		"venue":            p.Venue,
		"award":            p.Award,
		"pdf":              p.PDF,
		"demo":             p.Demo,
		"toolbox":          p.Toolbox,
		"slides":           p.Slides,
		"poster":           p.Poster,
		"school":           p.School,
		"course":           p.Course,
		"clients":          p.Clients,
		"type_label":       p.TypeLabel,
		"type_label_short": p.TypeLabelShort,
		"type_label_css":   p.TypeCSS,
		"type_group_id":    p.TypeGroupID,
		"type_group_name":  p.TypeGroupName,
		"cites":            p.Cites,
		"citation_url":     p.CitationURL,
		"target_page":      opts.TargetPage,
	}

	linkSlots := map[string]*publication.Link{
		"webpublication": p.WebPublication,
		"link1":          p.Link1, "link2": p.Link2, "link3": p.Link3, "link4": p.Link4,
		"data1": p.Data1, "data2": p.Data2,
		"code1": p.Code1, "code2": p.Code2, "code3": p.Code3, "code4": p.Code4, "code5": p.Code5,
		"git1": p.Git1, "git2": p.Git2, "git3": p.Git3, "git4": p.Git4, "git5": p.Git5,
	}
	for name, l := range linkSlots {
		if l == nil {
			m[name] = nil
			continue
		}
		title := l.Title
		if title == "" {
			title = name
		}
		m[name] = map[string]any{"url": l.URL, "title": title}
	}

	for name, v := range p.Extra {
		if _, taken := m[name]; !taken {
			m[name] = v
		}
	}
	return m
}

func metaContext(stats *publication.Stats, opts Options) map[string]any {
	return map[string]any{
		"publications":       stats.Publications,
		"cites":              stats.Cites,
		"unique_authors":     stats.UniqueAuthors,
		"pubs_per_year":      stats.PubsPerYear,
		"cites_per_year":     stats.CitesPerYear,
		"types":              stats.TypeCounts,
		"types_html_list":    stats.TypesHTMLList,
		"cite_update_string": stats.CiteUpdateString,
		"scholar_link":       opts.ScholarLink,
	}
}

// groupByYear buckets items into year groups ordered newest first. Items
// keep their list order within a year.
func groupByYear(items []map[string]any) []map[string]any {
	var years []int
	byYear := make(map[int][]map[string]any)
	for _, item := range items {
		y, _ := item["year"].(int)
		if _, seen := byYear[y]; !seen {
			years = append(years, y)
		}
		byYear[y] = append(byYear[y], item)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]map[string]any, len(years))
	for i, y := range years {
		groups[i] = map[string]any{"year": y, "items": byYear[y]}
	}
	return groups
}
