package scholar

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/toni-heittola/btex/internal/citecache"
	"github.com/toni-heittola/btex/internal/config"
	"github.com/toni-heittola/btex/internal/publication"
)

// Reconciler refreshes stale or missing citation counts for a publication
// list and attaches cached counts to the records. One Reconciler instance
// covers one processing batch: the query quota is counted across all
// Reconcile calls made through it.
type Reconciler struct {
	backend SearchBackend
	cfg     config.Scholar
	log     *zap.Logger

	queries int

	// replaceable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// NewReconciler builds a Reconciler over the given backend. A nil backend
// disables external queries; cached counts are still attached.
func NewReconciler(backend SearchBackend, cfg config.Scholar, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		backend: backend,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Reconcile loads the citation cache at cachePath, refreshes records that
// are stale or missing (subject to the batch quota and external access
// being enabled), and attaches citation counts to the publications in
// place. Every failure degrades to "no update this pass": a cache file
// that exists but cannot be parsed is logged and treated as empty.
func (r *Reconciler) Reconcile(ctx context.Context, pubs []publication.Publication, cachePath string) {
	entries, err := citecache.Load(cachePath)
	if err != nil {
		r.log.Warn("citation cache unreadable, continuing without cache",
			zap.String("path", cachePath), zap.Error(err))
		entries = nil
	} else if entries == nil {
		r.log.Info("no citation cache yet", zap.String("path", cachePath))
	}

	for i := range pubs {
		p := &pubs[i]

		cached := citecache.Find(entries, p.Title, p.Year)
		if r.shouldQuery(cached) {
			entries = r.refresh(ctx, p, entries, cachePath)
			cached = citecache.Find(entries, p.Title, p.Year)
		}
		attach(p, cached)
	}
}

// shouldQuery gates one publication's external query: external access on,
// quota not exhausted, and the cached record stale or absent.
func (r *Reconciler) shouldQuery(cached *citecache.Entry) bool {
	if !r.cfg.Active || r.backend == nil {
		return false
	}
	if r.queries >= r.cfg.MaxQueriesPerBatch {
		return false
	}
	return cached == nil || cached.Stale(r.cfg.FetchTimeout(), r.now())
}

// refresh issues one search for the publication and folds the outcome
// into the cache, saving the file after each successful fetch.
func (r *Reconciler) refresh(ctx context.Context, p *publication.Publication, entries []citecache.Entry, cachePath string) []citecache.Entry {
	author := ""
	if len(p.Authors) > 0 {
		author = p.Authors[0].FullName()
	}

	r.queries++
	r.log.Info("querying citation counts",
		zap.String("title", p.Title), zap.Int("query", r.queries))

	results, err := r.search(ctx, p.Title, author)
	if err != nil {
		r.log.Warn("citation query failed",
			zap.String("title", p.Title), zap.Error(err))
		return entries
	}

	defer r.pace()

	matched, ok := MatchResults(results, p.Title)
	if !ok {
		r.log.Info("no citation match", zap.String("title", p.Title))
		if !r.cfg.PersistEmpty {
			return entries
		}
		entries = citecache.Upsert(entries, p.Title, p.Year, citecache.Scholar{}, true, r.now())
	} else {
		r.log.Info("citation counts updated",
			zap.String("title", p.Title), zap.Int("cites", matched.TotalCitations))
		entries = citecache.Upsert(entries, p.Title, p.Year, citecache.Scholar{
			TotalCitations:  matched.TotalCitations,
			ClusterID:       matched.ClusterID,
			PDFURL:          matched.PDFURL,
			CitationListURL: matched.CitationListURL,
		}, true, r.now())
	}

	if err := citecache.Save(cachePath, entries); err != nil {
		r.log.Warn("saving citation cache failed",
			zap.String("path", cachePath), zap.Error(err))
	}
	return entries
}

// search runs one query, rotating to a new proxy and retrying when the
// backend reports a retryable condition.
func (r *Reconciler) search(ctx context.Context, title, author string) ([]Result, error) {
	tries := 0
	for {
		results, err := r.backend.SearchByTitleAndAuthor(ctx, title, author)
		if err == nil {
			return results, nil
		}
		if !IsRetryable(err) || tries >= r.cfg.ProxyRetries {
			return nil, err
		}
		rot, ok := r.backend.(ProxyRotating)
		if !ok || !rot.Rotate() {
			return nil, err
		}
		tries++
		r.log.Info("rotated proxy after retryable failure", zap.Int("try", tries))
	}
}

// pace sleeps a random duration inside the configured window to avoid
// tripping external rate limiting. Skipped in rotating-proxy mode, where
// each query already leaves from a different address.
func (r *Reconciler) pace() {
	if r.cfg.RotatingProxy() {
		return
	}
	min, max := r.cfg.PaceMinSeconds, r.cfg.PaceMaxSeconds
	if max <= min {
		if min <= 0 {
			return
		}
		r.sleep(time.Duration(min) * time.Second)
		return
	}
	d := time.Duration(min+rand.Intn(max-min+1)) * time.Second
	r.log.Debug("pacing before next query", zap.Duration("sleep", d))
	r.sleep(d)
}

// attach copies cached citation data onto the publication. No cached
// record means zero citations for this pass.
func attach(p *publication.Publication, cached *citecache.Entry) {
	if cached == nil {
		p.Cites = 0
		p.CitationURL = ""
		return
	}
	p.Cites = cached.Scholar.TotalCitations
	p.CitationURL = cached.CitationURL()
	p.CiteUpdateTime = time.Unix(cached.LastUpdate, 0)
}

// Attach populates citation fields from an already-loaded cache without
// any external queries. Used when external access is disabled but cached
// counts should still render.
func Attach(pubs []publication.Publication, entries []citecache.Entry) {
	for i := range pubs {
		attach(&pubs[i], citecache.Find(entries, pubs[i].Title, pubs[i].Year))
	}
}
