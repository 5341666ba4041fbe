package issue

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"

	"github.com/cli/go-gh/v2"
)

// Invocation holds the captured result of one gh run
type Invocation struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs gh with the given arguments and waits for it to exit.
// A non-zero exit returns the captured Invocation together with an
// ErrorTypeCommandFailed error.
type Runner interface {
	Run(ctx context.Context, args []string) (*Invocation, error)
}

// GHRunner runs the gh executable found by go-gh (GH_PATH or PATH)
type GHRunner struct {
	path     string
	lookPath func() (string, error)
}

// NewGHRunner creates a runner that resolves gh on first use
func NewGHRunner() *GHRunner {
	return &GHRunner{lookPath: gh.Path}
}

// Run executes gh and captures its output
func (r *GHRunner) Run(ctx context.Context, args []string) (*Invocation, error) {
	if r.path == "" {
		path, err := r.lookPath()
		if err != nil {
			return nil, NewToolNotFoundError(err)
		}
		r.path = path
	}

	cmd := exec.CommandContext(ctx, r.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	inv := &Invocation{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return inv, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
		return inv, NewCommandFailedError(inv.ExitCode, err)
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return nil, NewToolNotFoundError(err)
	default:
		return inv, NewUnexpectedError(err)
	}
}
