package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/toni-heittola/btex/internal/citecache"
)

var cacheStaleOnly bool

func init() {
	cacheCmd.Flags().BoolVar(&cacheStaleOnly, "stale", false, "Only show entries past the staleness window")
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache [cache.yaml]",
	Short: "Inspect the citation cache",
	Long: `Show the entries stored in a citation cache file.

Without an argument the settings' default cache path is used. The legacy
top-level "data:" form is read transparently.

Examples:
  btex cache
  btex cache --stale citation_cache.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCache,
}

func runCache(cmd *cobra.Command, args []string) error {
	settings := loadSettings()

	path := settings.Scholar.CacheFilename
	if len(args) == 1 {
		path = args[0]
	}

	entries, err := citecache.Load(path)
	if err != nil {
		exitWithError(ExitDataError, "reading cache %s: %v", path, err)
	}

	if cacheStaleOnly {
		now := time.Now()
		kept := entries[:0:0]
		for _, e := range entries {
			if e.Stale(settings.Scholar.FetchTimeout(), now) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No cached entries")
			return nil
		}
		fmt.Printf("%d cached entries in %s:\n\n", len(entries), path)
		for _, e := range entries {
			updated := time.Unix(e.LastUpdate, 0).Format("02.01.2006")
			fmt.Printf("  %4d cites  %s  (%d) %s\n", e.Scholar.TotalCitations, updated, e.Year, e.Title)
		}
		return nil
	}

	if entries == nil {
		entries = []citecache.Entry{}
	}
	return outputJSON(entries)
}
