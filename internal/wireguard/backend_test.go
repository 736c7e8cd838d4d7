package wireguard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

type fakeDevice struct {
	name    string
	configs []wgtypes.Config
	err     error
}

func (d *fakeDevice) ConfigureDevice(name string, cfg wgtypes.Config) error {
	d.name = name
	d.configs = append(d.configs, cfg)
	return d.err
}

func TestBackendApplyPeer(t *testing.T) {
	var logs bytes.Buffer
	dev := &fakeDevice{}
	b := NewBackend(dev, zerolog.New(&logs), WithResolveTimeout(time.Second))

	p := parseLines(t,
		"PublicKey = "+testPublicKey,
		"Endpoint = 192.0.2.1:51820",
		"AllowedIPs = 10.0.0.0/8",
	)

	require.NoError(t, b.ApplyPeer(context.Background(), "wg0", p))
	assert.Equal(t, "wg0", dev.name)
	require.Len(t, dev.configs, 1)

	cfg := dev.configs[0]
	assert.False(t, cfg.ReplacePeers)
	require.Len(t, cfg.Peers, 1)
	assert.Equal(t, testPublicKey, cfg.Peers[0].PublicKey.String())
	require.NotNil(t, cfg.Peers[0].Endpoint)
	assert.Equal(t, "192.0.2.1:51820", cfg.Peers[0].Endpoint.String())

	assert.Contains(t, logs.String(), `"component":"backend"`)
	assert.Contains(t, logs.String(), `"interface":"wg0"`)
}

func TestBackendApplyPeerWithoutKey(t *testing.T) {
	dev := &fakeDevice{}
	b := NewBackend(dev, zerolog.Nop())

	err := b.ApplyPeer(context.Background(), "wg0", &Peer{})
	assert.ErrorIs(t, err, ErrMissingPublicKey)
	assert.Empty(t, dev.configs)
}

func TestBackendApplyPeerResolutionFailure(t *testing.T) {
	dev := &fakeDevice{}
	b := NewBackend(dev, zerolog.Nop(), WithResolver(unreachableResolver()))

	p := parseLines(t, "PublicKey = "+testPublicKey, "Endpoint = peer.invalid:51820")

	err := b.ApplyPeer(context.Background(), "wg0", p)
	var hre *HostResolutionError
	assert.True(t, errors.As(err, &hre))
	assert.Empty(t, dev.configs)
}

func TestBackendApplyPeerDeviceError(t *testing.T) {
	dev := &fakeDevice{err: errors.New("no such device")}
	b := NewBackend(dev, zerolog.Nop())

	p := parseLines(t, "PublicKey = "+testPublicKey)

	err := b.ApplyPeer(context.Background(), "wg9", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wg9")
	assert.Contains(t, err.Error(), "no such device")
}
