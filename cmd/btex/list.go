package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toni-heittola/btex/internal/bibtex"
	"github.com/toni-heittola/btex/internal/publication"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum entries to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list <bibliography.bib>",
	Short: "List parsed publications",
	Long: `List the publications parsed from a bibliography file, after
normalization and type grouping.

Examples:
  btex list publications.bib
  btex list --limit 10 --human publications.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	loader := bibtex.NewLoader(publication.DefaultGroups(), log)
	pubs := loader.Load(args[0])
	if listLimit > 0 && listLimit < len(pubs) {
		pubs = pubs[:listLimit]
	}

	if humanOutput {
		if len(pubs) == 0 {
			fmt.Println("No publications found")
			return nil
		}
		fmt.Printf("%d publications:\n\n", len(pubs))
		for _, p := range pubs {
			fmt.Printf("  %-24s %4d  [%s] %s\n", p.Key, p.Year, p.TypeLabelShort, p.Title)
		}
		return nil
	}

	if pubs == nil {
		pubs = []publication.Publication{}
	}
	return outputJSON(pubs)
}
