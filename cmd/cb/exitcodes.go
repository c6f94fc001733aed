package main

// Exit codes
const (
	ExitSuccess     = 0 // Success, interrupted, or note discarded
	ExitError       = 1 // General error (invalid arguments, storage failure)
	ExitConfigError = 2 // Configuration error (unreadable settings, unsupported platform)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitNoResults   = 4 // No notes found or no search matches
)
