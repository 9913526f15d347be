// Package mocks provides shared test doubles for arcphpunit packages.
package mocks

import (
	"context"
	"sync"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/arcphpunit/internal/runner"
)

// Runner implements runner.Runner for testing. It plays the part of
// PHPUnit: it writes the configured JUnit and Clover content to the paths
// passed via --log-junit and --coverage-clover.
// Use NewRunner() to create instances with a fluent builder API.
type Runner struct {
	fs       afero.Fs
	junit    []byte
	clover   []byte
	stdout   string
	stderr   string
	exitCode int
	startErr error

	// RunFunc, when set, replaces the default behaviour entirely.
	RunFunc func(ctx context.Context, inv runner.Invocation) (*runner.Result, error)

	mu    sync.Mutex
	calls []runner.Invocation
}

// NewRunner creates a fake runner that writes reports to fs.
func NewRunner(fs afero.Fs) *Runner {
	return &Runner{fs: fs}
}

// WithJUnit sets the JUnit report written on each run.
func (m *Runner) WithJUnit(content string) *Runner {
	m.junit = []byte(content)
	return m
}

// WithClover sets the Clover report written on each run.
func (m *Runner) WithClover(content string) *Runner {
	m.clover = []byte(content)
	return m
}

// WithStdout sets the captured standard output.
func (m *Runner) WithStdout(s string) *Runner {
	m.stdout = s
	return m
}

// WithStderr sets the captured standard error.
func (m *Runner) WithStderr(s string) *Runner {
	m.stderr = s
	return m
}

// WithExitCode sets the process exit code.
func (m *Runner) WithExitCode(code int) *Runner {
	m.exitCode = code
	return m
}

// WithStartError makes Run fail as if the binary could not be started.
func (m *Runner) WithStartError(err error) *Runner {
	m.startErr = err
	return m
}

// Run records inv and emulates a PHPUnit process.
func (m *Runner) Run(ctx context.Context, inv runner.Invocation) (*runner.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, inv)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, inv)
	}
	if m.startErr != nil {
		return nil, m.startErr
	}

	if err := m.write(ArgValue(inv.Args, "--log-junit"), m.junit); err != nil {
		return nil, err
	}
	if err := m.write(ArgValue(inv.Args, "--coverage-clover"), m.clover); err != nil {
		return nil, err
	}

	return &runner.Result{
		ExitCode: m.exitCode,
		Stdout:   m.stdout,
		Stderr:   m.stderr,
	}, nil
}

func (m *Runner) write(path string, content []byte) error {
	if path == "" || content == nil {
		return nil
	}
	return afero.WriteFile(m.fs, path, content, 0o644)
}

// Test inspection methods

// Calls returns the recorded invocations in order.
func (m *Runner) Calls() []runner.Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]runner.Invocation, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times Run was called.
func (m *Runner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded invocations.
func (m *Runner) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

// ArgValue returns the argument following flag in args, or "" when flag is
// absent or last.
func ArgValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
