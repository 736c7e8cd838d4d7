// Package tunnelstate saves which tunnels are up at shutdown and brings them back
// at boot.
package tunnelstate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"wgpeer/internal/models"
	"wgpeer/internal/rootshell"
	"wgpeer/internal/wireguard"
)

// Hooks are the entry points the platform calls on boot and shutdown.
type Hooks interface {
	RestoreState(ctx context.Context) error
	SaveState(ctx context.Context) error
}

// Manager implements Hooks with wg and wg-quick run through a root shell.
type Manager struct {
	runner    rootshell.Runner
	stateFile string
	logger    zerolog.Logger
}

var _ Hooks = (*Manager)(nil)

// NewManager creates a Manager persisting to stateFile.
func NewManager(runner rootshell.Runner, stateFile string, logger zerolog.Logger) *Manager {
	return &Manager{
		runner:    runner,
		stateFile: stateFile,
		logger:    logger.With().Str("component", "tunnelstate").Logger(),
	}
}

// SaveState records the interfaces currently up.
func (m *Manager) SaveState(ctx context.Context) error {
	running, err := m.runningTunnels(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(models.TunnelState{Running: running})
	if err != nil {
		return fmt.Errorf("failed to serialize tunnel state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.stateFile), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(m.stateFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write tunnel state: %w", err)
	}

	m.logger.Info().Strs("running", running).Msg("saving state")
	return nil
}

// RestoreState brings up every tunnel recorded by SaveState. A missing state file
// means there is nothing to restore.
func (m *Manager) RestoreState(ctx context.Context) error {
	state, err := m.load()
	if err != nil {
		return err
	}
	if len(state.Running) == 0 {
		return nil
	}

	m.logger.Info().Strs("running", state.Running).Msg("restoring state")

	for _, name := range state.Running {
		if !wireguard.ValidateName(name) {
			return fmt.Errorf("invalid tunnel name %q in %s", name, m.stateFile)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range state.Running {
		name := name
		g.Go(func() error {
			return m.up(gctx, name)
		})
	}
	return g.Wait()
}

func (m *Manager) up(ctx context.Context, name string) error {
	res, err := m.runner.Run(ctx, "wg-quick up "+shellQuote(name))
	if err != nil {
		return fmt.Errorf("bring up %s: %w", name, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("bring up %s: exit %d: %s", name, res.ExitCode, strings.Join(res.Output(), "; "))
	}
	return nil
}

func (m *Manager) runningTunnels(ctx context.Context) ([]string, error) {
	res, err := m.runner.Run(ctx, "wg show interfaces")
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("list interfaces: exit %d: %s", res.ExitCode, strings.Join(res.Stderr, "; "))
	}

	running := strings.Fields(strings.Join(res.Stdout, " "))
	slices.Sort(running)
	return running, nil
}

func (m *Manager) load() (models.TunnelState, error) {
	var state models.TunnelState

	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("failed to read tunnel state: %w", err)
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("failed to parse tunnel state: %w", err)
	}
	return state, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
