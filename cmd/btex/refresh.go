package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toni-heittola/btex/internal/bibtex"
	"github.com/toni-heittola/btex/internal/publication"
	"github.com/toni-heittola/btex/internal/scholar"
)

var (
	refreshAuthor     string
	refreshVenue      string
	refreshCache      string
	refreshMaxQueries int
)

func init() {
	refreshCmd.Flags().StringVar(&refreshAuthor, "author", "", "Only refresh entries whose author list contains this name")
	refreshCmd.Flags().StringVar(&refreshVenue, "venue", "", "Only refresh entries whose venue contains this string")
	refreshCmd.Flags().StringVar(&refreshCache, "cache", "", "Citation cache path (default from settings)")
	refreshCmd.Flags().IntVar(&refreshMaxQueries, "max-queries", 0, "Override the per-batch query quota (0 = settings value)")
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <bibliography.bib[;more.bib...]> ...",
	Short: "Bulk-refresh citation counts into the cache",
	Long: `Refresh cached citation counts for many publications in one pass.

Bibliography arguments may be single files or semicolon-separated lists.
With --author or --venue only matching entries are queried; both filters
match case-insensitive substrings. Stale and uncached entries are fetched
from the configured search backend up to the batch quota, and the cache
file is rewritten after every successful fetch.

Examples:
  btex refresh publications.bib
  btex refresh --author "Virtanen" "pubs.bib;demos.bib"
  btex refresh --venue "Acoustics" --max-queries 50 pubs.bib`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	settings := loadSettings()
	log := newLogger()
	defer log.Sync()

	if refreshMaxQueries > 0 {
		settings.Scholar.MaxQueriesPerBatch = refreshMaxQueries
	}
	cachePath := refreshCache
	if cachePath == "" {
		cachePath = settings.Scholar.CacheFilename
	}

	loader := bibtex.NewLoader(publication.DefaultGroups(), log)
	var pubs []publication.Publication
	for _, arg := range args {
		for _, path := range strings.Split(arg, ";") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			pubs = append(pubs, loader.Load(path)...)
		}
	}
	pubs = filterPublications(pubs, refreshAuthor, refreshVenue)
	if len(pubs) == 0 {
		exitWithError(ExitDataError, "no publications matched")
	}

	backend, err := scholar.NewBackend(settings.Scholar)
	if err != nil {
		exitWithError(ExitConfigError, "search backend %q unavailable", settings.Scholar.Backend)
	}

	rec := scholar.NewReconciler(backend, settings.Scholar, log)
	rec.Reconcile(cmd.Context(), pubs, cachePath)

	updated := 0
	for i := range pubs {
		if !pubs[i].CiteUpdateTime.IsZero() {
			updated++
		}
	}
	log.Info("refresh pass finished",
		zap.Int("publications", len(pubs)), zap.Int("with_cached_counts", updated))

	if humanOutput {
		fmt.Printf("%d publications processed, %d carry citation counts\n", len(pubs), updated)
		return nil
	}
	return outputJSON(RefreshResponse{
		Status:       "ok",
		Cache:        cachePath,
		Publications: len(pubs),
		WithCounts:   updated,
	})
}

// filterPublications keeps entries matching the author and venue filters.
// Empty filters match everything.
func filterPublications(pubs []publication.Publication, author, venue string) []publication.Publication {
	author = strings.ToLower(author)
	venue = strings.ToLower(venue)

	out := pubs[:0:0]
	for _, p := range pubs {
		if author != "" && !authorMatches(p, author) {
			continue
		}
		if venue != "" && !strings.Contains(strings.ToLower(p.Venue), venue) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func authorMatches(p publication.Publication, needle string) bool {
	for _, a := range p.Authors {
		if strings.Contains(strings.ToLower(a.FullName()), needle) {
			return true
		}
	}
	return false
}

// RefreshResponse is the refresh command's JSON output.
type RefreshResponse struct {
	Status       string `json:"status"`
	Cache        string `json:"cache"`
	Publications int    `json:"publications"`
	WithCounts   int    `json:"with_counts"`
}
