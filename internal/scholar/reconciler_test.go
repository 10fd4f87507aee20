package scholar

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/toni-heittola/btex/internal/citecache"
	"github.com/toni-heittola/btex/internal/config"
	"github.com/toni-heittola/btex/internal/publication"
)

// fakeBackend returns canned results and counts queries.
type fakeBackend struct {
	results   []Result
	err       error
	calls     int
	rotations int
	failUntil int // queries fail until this many rotations happened
}

func (f *fakeBackend) SearchByTitleAndAuthor(ctx context.Context, title, author string) ([]Result, error) {
	f.calls++
	if f.err != nil && f.rotations < f.failUntil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeBackend) Rotate() bool {
	f.rotations++
	return true
}

func testScholarConfig() config.Scholar {
	return config.Scholar{
		Active:              true,
		FetchTimeoutSeconds: 7 * 24 * 60 * 60,
		MaxQueriesPerBatch:  10,
		ProxyRetries:        3,
	}
}

func newTestReconciler(backend SearchBackend, cfg config.Scholar) *Reconciler {
	r := NewReconciler(backend, cfg, nil)
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	r.sleep = func(time.Duration) {}
	return r
}

func TestReconcile_AttachesFetchedCounts(t *testing.T) {
	backend := &fakeBackend{results: []Result{
		{Title: "Acoustic scene classification", TotalCitations: 42, ClusterID: "c1"},
	}}
	cachePath := filepath.Join(t.TempDir(), "cache.yaml")

	pubs := []publication.Publication{{Title: "Acoustic scene classification", Year: 2018}}
	r := newTestReconciler(backend, testScholarConfig())
	r.Reconcile(context.Background(), pubs, cachePath)

	if pubs[0].Cites != 42 {
		t.Errorf("Cites = %d, want 42", pubs[0].Cites)
	}
	if pubs[0].CitationURL == "" {
		t.Error("CitationURL not attached")
	}

	// The fetch must have been persisted.
	entries, err := citecache.Load(cachePath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Scholar.TotalCitations != 42 {
		t.Errorf("cache = %+v", entries)
	}
}

func TestReconcile_QuotaLimitsQueries(t *testing.T) {
	backend := &fakeBackend{}
	cfg := testScholarConfig()
	cfg.MaxQueriesPerBatch = 2

	pubs := []publication.Publication{
		{Title: "First", Year: 2020},
		{Title: "Second", Year: 2021},
		{Title: "Third", Year: 2022},
	}
	r := newTestReconciler(backend, cfg)
	r.Reconcile(context.Background(), pubs, filepath.Join(t.TempDir(), "cache.yaml"))

	if backend.calls != 2 {
		t.Errorf("backend called %d times, want 2", backend.calls)
	}
}

func TestReconcile_FreshCacheSkipsQuery(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.yaml")
	err := citecache.Save(cachePath, []citecache.Entry{{
		Title:      "acoustic scene classification",
		Year:       2018,
		LastUpdate: 1700000000, // same instant as the reconciler clock
		Scholar:    citecache.Scholar{TotalCitations: 7},
	}})
	if err != nil {
		t.Fatal(err)
	}

	backend := &fakeBackend{}
	pubs := []publication.Publication{{Title: "Acoustic scene classification", Year: 2018}}
	r := newTestReconciler(backend, testScholarConfig())
	r.Reconcile(context.Background(), pubs, cachePath)

	if backend.calls != 0 {
		t.Errorf("backend called %d times for a fresh record", backend.calls)
	}
	if pubs[0].Cites != 7 {
		t.Errorf("Cites = %d, want cached 7", pubs[0].Cites)
	}
}

func TestReconcile_InactiveStillAttachesCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.yaml")
	err := citecache.Save(cachePath, []citecache.Entry{{
		Title: "old paper", Year: 2010, LastUpdate: 1, Scholar: citecache.Scholar{TotalCitations: 3},
	}})
	if err != nil {
		t.Fatal(err)
	}

	cfg := testScholarConfig()
	cfg.Active = false
	backend := &fakeBackend{}
	pubs := []publication.Publication{{Title: "Old paper", Year: 2010}}
	r := newTestReconciler(backend, cfg)
	r.Reconcile(context.Background(), pubs, cachePath)

	if backend.calls != 0 {
		t.Error("inactive reconciler must not query")
	}
	if pubs[0].Cites != 3 {
		t.Errorf("Cites = %d, want cached 3", pubs[0].Cites)
	}
}

func TestReconcile_PersistEmpty(t *testing.T) {
	run := func(persist bool) []citecache.Entry {
		cachePath := filepath.Join(t.TempDir(), "cache.yaml")
		cfg := testScholarConfig()
		cfg.PersistEmpty = persist

		pubs := []publication.Publication{{Title: "Unknown paper", Year: 2024}}
		r := newTestReconciler(&fakeBackend{}, cfg)
		r.Reconcile(context.Background(), pubs, cachePath)

		entries, err := citecache.Load(cachePath)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		return entries
	}

	if entries := run(false); len(entries) != 0 {
		t.Errorf("persist_empty off wrote %+v", entries)
	}
	if entries := run(true); len(entries) != 1 || entries[0].Scholar.TotalCitations != 0 {
		t.Errorf("persist_empty on should record the miss, got %+v", entries)
	}
}

func TestReconcile_RotatesProxyOnRetryableFailure(t *testing.T) {
	backend := &fakeBackend{
		err:       ErrRateLimited,
		failUntil: 2,
		results:   []Result{{Title: "Paper", TotalCitations: 5}},
	}
	cfg := testScholarConfig()
	cfg.Proxies = []string{"http://proxy-a:8080", "http://proxy-b:8080"}

	pubs := []publication.Publication{{Title: "Paper", Year: 2022}}
	r := newTestReconciler(backend, cfg)
	r.Reconcile(context.Background(), pubs, filepath.Join(t.TempDir(), "cache.yaml"))

	if backend.rotations != 2 {
		t.Errorf("rotations = %d, want 2", backend.rotations)
	}
	if pubs[0].Cites != 5 {
		t.Errorf("Cites = %d, want 5 after retry", pubs[0].Cites)
	}
}

func TestReconcile_SkipsPacingInProxyMode(t *testing.T) {
	slept := 0
	cfg := testScholarConfig()
	cfg.PaceMinSeconds = 1
	cfg.PaceMaxSeconds = 2
	cfg.Proxies = []string{"http://proxy-a:8080"}

	backend := &fakeBackend{results: []Result{{Title: "Paper", TotalCitations: 1}}}
	r := newTestReconciler(backend, cfg)
	r.sleep = func(time.Duration) { slept++ }
	r.Reconcile(context.Background(), []publication.Publication{{Title: "Paper", Year: 2022}},
		filepath.Join(t.TempDir(), "cache.yaml"))

	if slept != 0 {
		t.Errorf("paced %d times in rotating-proxy mode", slept)
	}
}

func TestAttach(t *testing.T) {
	entries := []citecache.Entry{{
		Title: "known paper", Year: 2020, LastUpdate: 1700000000,
		Scholar: citecache.Scholar{TotalCitations: 9, ClusterID: "c9"},
	}}
	pubs := []publication.Publication{
		{Title: "Known paper", Year: 2020, Cites: 99},
		{Title: "Unknown paper", Year: 2021, Cites: 99},
	}

	Attach(pubs, entries)

	if pubs[0].Cites != 9 {
		t.Errorf("Cites = %d, want 9", pubs[0].Cites)
	}
	if pubs[0].CiteUpdateTime.Unix() != 1700000000 {
		t.Errorf("CiteUpdateTime = %v", pubs[0].CiteUpdateTime)
	}
	if pubs[1].Cites != 0 {
		t.Errorf("unmatched publication Cites = %d, want 0", pubs[1].Cites)
	}
}
