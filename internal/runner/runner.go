// Package runner invokes the external PHPUnit process.
package runner

import (
	"context"
	"strings"
)

// Invocation describes one process to run.
type Invocation struct {
	Binary string
	Args   []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env holds additional KEY=VALUE entries appended to the inherited
	// environment.
	Env []string
}

// String renders the invocation as a shell-like command line for logs.
func (inv Invocation) String() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, quote(inv.Binary))
	for _, a := range inv.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'|&;<>()$`\\*?") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Result is the outcome of a finished process. A non-zero ExitCode is not
// an error: PHPUnit exits non-zero whenever a test fails.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs a process to completion.
type Runner interface {
	// Run blocks until the process exits. It returns an error only when
	// the process could not be started.
	Run(ctx context.Context, inv Invocation) (*Result, error)
}
