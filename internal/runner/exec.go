package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
)

// waitDelay bounds how long Run waits for the output pipes to close after
// the process was killed.
const waitDelay = 2 * time.Second

// Exec runs processes with os/exec.
type Exec struct {
	// Stream, when set, receives a copy of the process output as it is
	// produced.
	Stream io.Writer
}

// NewExec creates an Exec runner.
func NewExec() *Exec {
	return &Exec{}
}

// Run executes inv and captures its output. A process killed because ctx
// ended reports exit code -1 with the context error appended to stderr.
func (e *Exec) Run(ctx context.Context, inv Invocation) (*Result, error) {
	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	// Pass through environment
	cmd.Env = append(os.Environ(), inv.Env...)

	var stdout, stderr bytes.Buffer
	if e.Stream != nil {
		cmd.Stdout = io.MultiWriter(e.Stream, &stdout)
		cmd.Stderr = io.MultiWriter(e.Stream, &stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case stderrors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Stderr += fmt.Sprintf("\n%s terminated: %v\n", inv.Binary, ctxErr)
		}
		return res, nil
	case cmd.ProcessState != nil:
		// The process ran but Wait failed on its own, e.g. exec.ErrWaitDelay.
		res.ExitCode = cmd.ProcessState.ExitCode()
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Stderr += fmt.Sprintf("\n%s terminated: %v\n", inv.Binary, ctxErr)
		}
		return res, nil
	default:
		return nil, errors.Environment(fmt.Sprintf("failed to start %s", inv.Binary), err)
	}
}
