package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command is the subset of *exec.Cmd used for long-running encoder
// processes.
type Command interface {
	StdoutPipe() (io.ReadCloser, error)
	StderrPipe() (io.ReadCloser, error)
	Start() error
	Wait() error
}

// Runner starts external tools.
type Runner interface {
	// Output runs name to completion and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Command prepares a process whose output is consumed while it runs.
	Command(ctx context.Context, name string, args ...string) Command
}

// ExecRunner runs real processes via os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w - %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func (r *ExecRunner) Command(ctx context.Context, name string, args ...string) Command {
	return exec.CommandContext(ctx, name, args...)
}
