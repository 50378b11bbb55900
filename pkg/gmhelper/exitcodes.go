// Package gmhelper provides public constants for external tools integrating
// with the gmhelper exporter.
package gmhelper

// Exit codes returned by the gmhelper CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the command completed. A sprite without tags, or
	// no sprite at all, also ends with ExitSuccess after printing a message.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (host export failed, etc.).
	ExitFailure = 1

	// ExitConfigError indicates a configuration error or a missing required parameter.
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (aseprite not installed, etc.).
	ExitEnvError = 3
)
