// Package page rewrites publication-list marker elements inside built
// HTML pages. A marker is a div carrying the "btex" class (full list) or
// the "btex-item" class (single entry); its data attributes select the
// bibliography source, template, and citation behaviour. Markers are
// replaced in place and the page's script/style include lists are kept
// deduplicated.
package page

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/toni-heittola/btex/internal/bibtex"
	"github.com/toni-heittola/btex/internal/config"
	"github.com/toni-heittola/btex/internal/publication"
	"github.com/toni-heittola/btex/internal/render"
	"github.com/toni-heittola/btex/internal/scholar"
)

// Page is one HTML page flowing through the rewriter: its content plus
// the script/style include side channel the site generator collects.
type Page struct {
	Content string
	Scripts []string
	Styles  []string
}

// Rewriter drives the loader, reconciler, and renderer for every marker
// on a page.
type Rewriter struct {
	settings *config.Settings
	groups   []publication.TypeGroup
	loader   *bibtex.Loader
	renderer *render.Renderer
	backend  scholar.SearchBackend
	log      *zap.Logger
	now      func() time.Time
}

// NewRewriter creates a Rewriter. A nil settings uses the defaults; the
// backend may be nil, which disables external citation queries while
// cached counts still attach.
func NewRewriter(settings *config.Settings, backend scholar.SearchBackend, log *zap.Logger) *Rewriter {
	if settings == nil {
		settings = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	groups := publication.DefaultGroups()
	return &Rewriter{
		settings: settings,
		groups:   groups,
		loader:   bibtex.NewLoader(groups, log),
		renderer: render.NewRenderer(log),
		backend:  backend,
		log:      log,
		now:      time.Now,
	}
}

// markerOptions is one marker's resolved data attributes.
type markerOptions struct {
	Source      string
	Template    string
	Cache       string
	Years       int
	Limit       int
	Stats       bool
	CiteCounts  bool
	ScholarLink string
	TargetPage  string
	ItemKey     string
}

// Rewrite processes every marker on the page and registers the include
// tags. Marker failures degrade to empty fragments; the only returned
// error is unparseable page HTML.
func (rw *Rewriter) Rewrite(ctx context.Context, p *Page) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.Content))
	if err != nil {
		return fmt.Errorf("parsing page: %w", err)
	}

	// One reconciler spans the whole page pass so the external query
	// quota is counted across every marker, not per marker.
	rec := scholar.NewReconciler(rw.backend, rw.settings.Scholar, rw.log)

	doc.Find("div.btex").Each(func(_ int, sel *goquery.Selection) {
		rw.rewriteList(ctx, sel, rec)
	})
	doc.Find("div.btex-item").Each(func(_ int, sel *goquery.Selection) {
		rw.rewriteItem(ctx, sel, rec)
	})

	var out string
	if isFullDocument(p.Content) {
		out, err = doc.Selection.Html()
	} else {
		out, err = doc.Find("body").Html()
	}
	if err != nil {
		return fmt.Errorf("serializing page: %w", err)
	}
	p.Content = out

	rw.registerIncludes(p)
	return nil
}

func (rw *Rewriter) rewriteList(ctx context.Context, sel *goquery.Selection, rec *scholar.Reconciler) {
	opts := rw.resolveOptions(sel, "publications")
	if opts.Source == "" {
		rw.log.Warn("publication marker without data-source, dropping")
		sel.ReplaceWithHtml("")
		return
	}

	pubs := rw.loader.Load(opts.Source)
	if opts.CiteCounts {
		rec.Reconcile(ctx, pubs, opts.Cache)
	}

	firstVisible := 0
	if opts.Years > 0 {
		firstVisible = rw.now().Year() - opts.Years
		pubs = filterByYear(pubs, firstVisible)
	}
	if opts.Limit > 0 {
		pubs = latest(pubs, opts.Limit)
	}

	var stats *publication.Stats
	if opts.Stats {
		stats = publication.ComputeStats(pubs, rw.groups)
	}

	fragment, err := rw.renderer.Render(render.Options{
		Template:         opts.Template,
		UserTemplate:     inlineTemplate(sel),
		Stats:            opts.Stats,
		ScholarLink:      opts.ScholarLink,
		FirstVisibleYear: firstVisible,
		TargetPage:       opts.TargetPage,
	}, pubs, stats, rw.groups)
	if err != nil {
		rw.log.Warn("publication marker failed to render", zap.String("source", opts.Source), zap.Error(err))
		fragment = ""
	}
	sel.ReplaceWithHtml(fragment)
}

func (rw *Rewriter) rewriteItem(ctx context.Context, sel *goquery.Selection, rec *scholar.Reconciler) {
	opts := rw.resolveOptions(sel, "item")
	if opts.Source == "" || opts.ItemKey == "" {
		rw.log.Warn("item marker missing data-source or data-item, dropping")
		sel.ReplaceWithHtml("")
		return
	}

	pubs := rw.loader.Load(opts.Source)
	var selected []publication.Publication
	for i := range pubs {
		if pubs[i].Key == opts.ItemKey {
			selected = append(selected, pubs[i])
			break
		}
	}
	if len(selected) == 0 {
		rw.log.Warn("item marker key not found in bibliography",
			zap.String("source", opts.Source), zap.String("key", opts.ItemKey))
	} else if opts.CiteCounts {
		rec.Reconcile(ctx, selected, opts.Cache)
	}

	fragment, err := rw.renderer.Render(render.Options{
		Template:     opts.Template,
		UserTemplate: inlineTemplate(sel),
		TargetPage:   opts.TargetPage,
	}, selected, nil, rw.groups)
	if err != nil {
		rw.log.Warn("item marker failed to render", zap.String("key", opts.ItemKey), zap.Error(err))
		fragment = ""
	}
	sel.ReplaceWithHtml(fragment)
}

func (rw *Rewriter) resolveOptions(sel *goquery.Selection, defaultTemplate string) markerOptions {
	opts := markerOptions{
		Source:      attr(sel, "source", ""),
		Template:    attr(sel, "template", defaultTemplate),
		Cache:       attr(sel, "cache", rw.settings.Scholar.CacheFilename),
		Years:       attrInt(sel, "years"),
		Stats:       attrBool(sel, "stats"),
		CiteCounts:  attrBool(sel, "scholar-cite-counts"),
		ScholarLink: attr(sel, "scholar-link", ""),
		TargetPage:  attr(sel, "target-page", ""),
		ItemKey:     attr(sel, "item", ""),
	}
	opts.Limit = attrInt(sel, "limit")
	if opts.Limit == 0 {
		opts.Limit = attrInt(sel, "item-count")
	}
	return opts
}

func attr(sel *goquery.Selection, name, fallback string) string {
	if v, ok := sel.Attr("data-" + name); ok && v != "" {
		return v
	}
	return fallback
}

func attrInt(sel *goquery.Selection, name string) int {
	n, err := strconv.Atoi(attr(sel, name, ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func attrBool(sel *goquery.Selection, name string) bool {
	switch strings.ToLower(attr(sel, name, "")) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// inlineTemplate extracts a user-authored template from the marker body.
// A marker whose text content is blank falls back to the named built-in.
func inlineTemplate(sel *goquery.Selection) string {
	if strings.TrimSpace(sel.Text()) == "" {
		return ""
	}
	inner, err := sel.Html()
	if err != nil {
		return ""
	}
	// The HTML parser entity-escapes angle brackets inside text nodes.
	return html.UnescapeString(inner)
}

// isFullDocument reports whether raw carries its own document shell. The
// HTML parser synthesizes html, head, and body elements for every input,
// so the decision has to come from the source text.
func isFullDocument(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html")
}

// filterByYear keeps publications strictly newer than the first visible
// year, which itself stays hidden.
func filterByYear(pubs []publication.Publication, firstVisible int) []publication.Publication {
	out := pubs[:0:0]
	for _, p := range pubs {
		if p.Year > firstVisible {
			out = append(out, p)
		}
	}
	return out
}

// latest keeps the n most recent publications, newest first.
func latest(pubs []publication.Publication, n int) []publication.Publication {
	out := append([]publication.Publication(nil), pubs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// registerIncludes appends the script/style tags the rendered markup
// needs, once each, preserving first-insertion order.
func (rw *Rewriter) registerIncludes(p *Page) {
	script := `<script type="text/javascript" src="theme/js/btex.js"></script>`
	if rw.settings.Minified {
		script = `<script type="text/javascript" src="theme/js/btex.min.js"></script>`
	}
	p.Scripts = appendUnique(p.Scripts, script)

	if rw.settings.FontAwesomeCDN {
		p.Styles = appendUnique(p.Styles,
			`<link rel="stylesheet" href="https://maxcdn.bootstrapcdn.com/font-awesome/4.6.3/css/font-awesome.min.css">`)
	}
}

func appendUnique(list []string, element string) []string {
	for _, have := range list {
		if have == element {
			return list
		}
	}
	return append(list, element)
}
