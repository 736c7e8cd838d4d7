// Package rootshell runs shell commands with elevated privileges and captures
// their output.
package rootshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoRoot is returned when the elevation command is not available.
var ErrNoRoot = errors.New("root access unavailable")

// waitDelay bounds how long Run waits for output pipes to close after the
// command is killed; children of sh may still hold them.
const waitDelay = time.Second

// Result is the outcome of a command that ran to completion.
type Result struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
}

// Output returns stdout followed by stderr.
func (r Result) Output() []string {
	return append(slices.Clone(r.Stdout), r.Stderr...)
}

// Runner runs a command line with elevated privileges.
type Runner interface {
	Run(ctx context.Context, command string) (Result, error)
}

// Shell runs commands through "sh -c", prefixed by an elevation command such as
// "sudo -n". With no prefix the command runs as the current user.
type Shell struct {
	elevate []string
	logger  zerolog.Logger
}

// New creates a Shell.
func New(elevate []string, logger zerolog.Logger) *Shell {
	return &Shell{
		elevate: slices.Clone(elevate),
		logger:  logger.With().Str("component", "rootshell").Logger(),
	}
}

// Start checks that the elevation command can be found.
func (s *Shell) Start() error {
	if len(s.elevate) == 0 {
		return nil
	}
	if _, err := exec.LookPath(s.elevate[0]); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoRoot, s.elevate[0], err)
	}
	return nil
}

// Run executes command. A non-zero exit status is reported in Result, not as an
// error; errors mean the command could not be run at all.
func (s *Shell) Run(ctx context.Context, command string) (Result, error) {
	if err := s.Start(); err != nil {
		return Result{}, err
	}

	args := append(slices.Clone(s.elevate), "sh", "-c", command)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := Result{
		Stdout: splitLines(stdout.String()),
		Stderr: splitLines(stderr.String()),
	}

	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return res, fmt.Errorf("run %q: %w", command, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		return res, fmt.Errorf("run %q: %w", command, err)
	}

	s.logger.Debug().
		Str("cmd_id", uuid.NewString()).
		Str("command", command).
		Strs("stdout", res.Stdout).
		Strs("stderr", res.Stderr).
		Int("exit", res.ExitCode).
		Msg("executed")

	return res, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
