package main

// Exit codes shared by every subcommand.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad settings file, invalid paths)
	ExitDataError   = 3 // Data error (unreadable page, malformed cache)
)
