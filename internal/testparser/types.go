// Package testparser extracts test counts from PHPUnit console output.
package testparser

// TestCounts holds parsed test result counts.
type TestCounts struct {
	Passed  int
	Failed  int // failures and errors
	Skipped int // skipped, incomplete and warning tests
	Total   int
	Parsed  bool // true if a summary was found
}

// Parser defines the interface for console output parsers.
type Parser interface {
	// Parse extracts test counts from the runner output.
	Parse(output string) TestCounts
	// Name returns the name of the parser.
	Name() string
}
