package launch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ExecStarter starts commands with os/exec and reaps them in the background
type ExecStarter struct {
	logger *slog.Logger
}

// NewExecStarter creates a starter that logs child exits at debug level
func NewExecStarter(logger *slog.Logger) *ExecStarter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecStarter{logger: logger}
}

// Start spawns cmd and returns as soon as the process exists
func (s *ExecStarter) Start(c Command) (int, error) {
	cmd := exec.Command(c.Program, c.Args...)
	cmd.Dir = c.Dir

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", c.Program, err)
	}

	pid := cmd.Process.Pid
	go func() {
		// Exit status is not inspected; Wait only releases process resources.
		err := cmd.Wait()
		s.logger.Debug("Child process exited", "pid", pid, "error", err)
	}()

	return pid, nil
}

// ExecRunner runs commands to completion with os/exec
type ExecRunner struct{}

// Output runs cmd and returns its stdout. A non-zero exit is an error that
// carries the trimmed stderr.
func (ExecRunner) Output(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = c.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", c.Program, err, msg)
		}
		return out, fmt.Errorf("%s: %w", c.Program, err)
	}
	return out, nil
}
