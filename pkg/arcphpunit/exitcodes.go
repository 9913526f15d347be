// Package arcphpunit provides public constants for tools integrating with
// the arcphpunit CLI.
package arcphpunit

// Exit codes returned by the arcphpunit CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every test passed or was skipped, or that no
	// changed file affected any test.
	ExitSuccess = 0

	// ExitFailure indicates a failing or broken test, an unparsable report,
	// or another runtime failure.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid .arcconfig,
	// missing PHPUnit configuration file, bad flags).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (PHPUnit binary cannot be
	// started).
	ExitEnvError = 3
)
