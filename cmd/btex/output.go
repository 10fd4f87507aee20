package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/toni-heittola/btex/internal/config"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// loadSettings resolves the effective settings for a command, exiting on
// an unreadable settings file.
func loadSettings() *config.Settings {
	settings, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading settings: %v", err)
	}
	return settings
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}
