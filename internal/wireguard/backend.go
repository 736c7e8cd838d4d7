package wireguard

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// DeviceConfigurer applies configuration to a WireGuard device. *wgctrl.Client
// satisfies it.
type DeviceConfigurer interface {
	ConfigureDevice(name string, cfg wgtypes.Config) error
}

// Backend pushes peers to a running WireGuard interface.
type Backend struct {
	device         DeviceConfigurer
	resolver       *net.Resolver
	resolveTimeout time.Duration
	logger         zerolog.Logger
}

// BackendOption is a functional option for configuring a Backend.
type BackendOption func(*Backend)

// WithResolver sets the resolver used for endpoint lookups.
func WithResolver(r *net.Resolver) BackendOption {
	return func(b *Backend) {
		b.resolver = r
	}
}

// WithResolveTimeout bounds each endpoint lookup.
func WithResolveTimeout(d time.Duration) BackendOption {
	return func(b *Backend) {
		b.resolveTimeout = d
	}
}

// NewBackend creates a Backend on top of device.
func NewBackend(device DeviceConfigurer, logger zerolog.Logger, opts ...BackendOption) *Backend {
	b := &Backend{
		device:         device,
		resolveTimeout: 5 * time.Second,
		logger:         logger.With().Str("component", "backend").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ApplyPeer resolves the peer endpoint and adds or updates the peer on iface,
// replacing its allowed IPs. Other peers on the interface are left alone.
func (b *Backend) ApplyPeer(ctx context.Context, iface string, p *Peer) error {
	peerCfg, err := p.PeerConfig()
	if err != nil {
		return err
	}

	if ep := p.Endpoint(); ep != nil {
		rctx, cancel := context.WithTimeout(ctx, b.resolveTimeout)
		ipp, err := ep.Resolve(rctx, b.resolver)
		cancel()
		if err != nil {
			return err
		}
		peerCfg.Endpoint = ipp.UDPAddr()
	}

	cfg := wgtypes.Config{
		Peers: []wgtypes.PeerConfig{peerCfg},
	}
	if err := b.device.ConfigureDevice(iface, cfg); err != nil {
		return fmt.Errorf("failed to configure WireGuard device %s: %w", iface, err)
	}

	b.logger.Info().
		Str("interface", iface).
		Str("public_key", shortKey(p.PublicKey())).
		Int("allowed_ips", len(peerCfg.AllowedIPs)).
		Msg("peer applied")
	return nil
}

func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8] + "..."
	}
	return key
}
