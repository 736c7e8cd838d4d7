package rootshell

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunCapturesOutput(t *testing.T) {
	var logs bytes.Buffer
	s := New(nil, zerolog.New(&logs).Level(zerolog.DebugLevel))
	require.NoError(t, s.Start())

	res, err := s.Run(context.Background(), "echo out; echo two; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, []string{"out", "two"}, res.Stdout)
	assert.Equal(t, []string{"err"}, res.Stderr)
	assert.Equal(t, []string{"out", "two", "err"}, res.Output())

	assert.Contains(t, logs.String(), `"component":"rootshell"`)
	assert.Contains(t, logs.String(), `"cmd_id":`)
	assert.Contains(t, logs.String(), `"exit":3`)
}

func TestShellRunSuccess(t *testing.T) {
	s := New(nil, zerolog.Nop())

	res, err := s.Run(context.Background(), "true")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestShellMissingElevation(t *testing.T) {
	s := New([]string{"wgpeer-no-such-sudo"}, zerolog.Nop())

	assert.ErrorIs(t, s.Start(), ErrNoRoot)

	_, err := s.Run(context.Background(), "true")
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestShellRunCanceled(t *testing.T) {
	s := New(nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, "sleep 5")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShellRunDeadlineWhileRunning(t *testing.T) {
	s := New(nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.Run(ctx, "sleep 5; echo done")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}
