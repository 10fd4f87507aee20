package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toni-heittola/btex/internal/page"
	"github.com/toni-heittola/btex/internal/scholar"
)

var renderOutput string

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write rewritten page here instead of in place")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <page.html>",
	Short: "Rewrite publication markers inside a built HTML page",
	Long: `Rewrite publication markers inside a built HTML page.

Markers are div elements with the "btex" class (publication list) or the
"btex-item" class (single entry). Each marker selects its bibliography
with data-source and is replaced in place with rendered HTML.

Examples:
  btex render output/publications.html
  btex render --output /tmp/preview.html content/index.html`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	settings := loadSettings()
	log := newLogger()
	defer log.Sync()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading page: %v", err)
	}

	backend, err := scholar.NewBackend(settings.Scholar)
	if err != nil {
		// Unknown backend name disables citation fetching, nothing else.
		backend = nil
	}

	p := &page.Page{Content: string(raw)}
	rw := page.NewRewriter(settings, backend, log)
	if err := rw.Rewrite(cmd.Context(), p); err != nil {
		exitWithError(ExitDataError, "rewriting page: %v", err)
	}

	target := args[0]
	if renderOutput != "" {
		target = renderOutput
	}
	if err := os.WriteFile(target, []byte(p.Content), 0o644); err != nil {
		exitWithError(ExitError, "writing page: %v", err)
	}

	if humanOutput {
		fmt.Printf("rewrote %s\n", target)
		if len(p.Scripts) > 0 {
			fmt.Printf("scripts:\n  %s\n", strings.Join(p.Scripts, "\n  "))
		}
		if len(p.Styles) > 0 {
			fmt.Printf("styles:\n  %s\n", strings.Join(p.Styles, "\n  "))
		}
	} else {
		outputJSON(RenderResponse{Status: "ok", Path: target, Scripts: p.Scripts, Styles: p.Styles})
	}
	return nil
}

// RenderResponse is the render command's JSON output.
type RenderResponse struct {
	Status  string   `json:"status"`
	Path    string   `json:"path"`
	Scripts []string `json:"scripts,omitempty"`
	Styles  []string `json:"styles,omitempty"`
}
