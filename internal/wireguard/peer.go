package wireguard

import (
	"context"
	"errors"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

var errUnknownAttribute = errors.New("unrecognized peer attribute")

// Peer is the configuration of a single [Peer] block.
// The zero value is an empty peer ready for Parse.
type Peer struct {
	allowedIPs          []InetNetwork
	endpoint            *InetEndpoint
	persistentKeepalive uint16
	presharedKey        string
	publicKey           string
}

// Parse applies one "Key = value" line to the peer. AllowedIPs lines accumulate;
// every other key replaces the previous value.
func (p *Peer) Parse(line string) error {
	attr, ok := MatchAttribute(line)
	if !ok {
		return formatError("line", line, errUnknownAttribute)
	}

	switch attr {
	case AttrAllowedIPs:
		networks, err := parseNetworks(attr.ParseList(line))
		if err != nil {
			return err
		}
		p.allowedIPs = append(p.allowedIPs, networks...)
		return nil
	case AttrEndpoint:
		return p.SetEndpoint(attr.ParseValue(line))
	case AttrPersistentKeepalive:
		return p.SetPersistentKeepalive(attr.ParseValue(line))
	case AttrPresharedKey:
		return p.SetPresharedKey(attr.ParseValue(line))
	case AttrPublicKey:
		return p.SetPublicKey(attr.ParseValue(line))
	}
	return formatError("line", line, errUnknownAttribute)
}

// String serializes the peer as a [Peer] block. Absent attributes are omitted.
func (p *Peer) String() string {
	var sb strings.Builder
	sb.WriteString("[Peer]\n")
	for _, attr := range Attributes {
		if v := p.value(attr); v != "" {
			sb.WriteString(attr.Compose(v))
		}
	}
	return sb.String()
}

func (p *Peer) value(attr Attribute) string {
	switch attr {
	case AttrAllowedIPs:
		return p.AllowedIPsString()
	case AttrEndpoint:
		return p.EndpointString()
	case AttrPersistentKeepalive:
		return p.PersistentKeepaliveString()
	case AttrPresharedKey:
		return p.presharedKey
	case AttrPublicKey:
		return p.publicKey
	}
	return ""
}

// AllowedIPs returns a copy of the allowed networks in insertion order.
func (p *Peer) AllowedIPs() []InetNetwork {
	return slices.Clone(p.allowedIPs)
}

// AllowedIPsString returns the allowed networks joined by ", ", or "" when empty.
func (p *Peer) AllowedIPsString() string {
	return JoinList(networksToStrings(p.allowedIPs))
}

// SetAllowedIPs replaces the allowed networks with a comma-separated list.
// On error the previous list is kept.
func (p *Peer) SetAllowedIPs(list string) error {
	networks, err := parseNetworks(SplitList(list))
	if err != nil {
		return err
	}
	p.allowedIPs = networks
	return nil
}

// Endpoint returns the endpoint, or nil when unset.
func (p *Peer) Endpoint() *InetEndpoint {
	if p.endpoint == nil {
		return nil
	}
	e := *p.endpoint
	return &e
}

// EndpointString returns the unresolved endpoint, or "".
func (p *Peer) EndpointString() string {
	if p.endpoint == nil {
		return ""
	}
	return p.endpoint.String()
}

// SetEndpoint parses host:port. An empty string clears the endpoint.
func (p *Peer) SetEndpoint(text string) error {
	if strings.TrimSpace(text) == "" {
		p.endpoint = nil
		return nil
	}
	e, err := ParseEndpoint(text)
	if err != nil {
		return err
	}
	p.endpoint = &e
	return nil
}

// ResolvedEndpointString resolves the endpoint to ip:port.
func (p *Peer) ResolvedEndpointString(ctx context.Context, resolver *net.Resolver) (string, error) {
	if p.endpoint == nil {
		return "", &HostResolutionError{Host: "{empty}", Err: ErrNoEndpoint}
	}
	return p.endpoint.ResolvedString(ctx, resolver)
}

// PersistentKeepalive returns the keepalive interval in seconds; 0 means unset.
func (p *Peer) PersistentKeepalive() int {
	return int(p.persistentKeepalive)
}

// PersistentKeepaliveString returns the interval in seconds, or "" when unset.
func (p *Peer) PersistentKeepaliveString() string {
	if p.persistentKeepalive == 0 {
		return ""
	}
	return strconv.Itoa(int(p.persistentKeepalive))
}

// SetPersistentKeepalive parses a base-10 number of seconds. Empty or 0 unsets it.
func (p *Peer) SetPersistentKeepalive(text string) error {
	s := strings.TrimSpace(text)
	if s == "" {
		p.persistentKeepalive = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return formatError(AttrPersistentKeepalive.Token(), text, errors.New("must be a number between 0 and 65535"))
	}
	p.persistentKeepalive = uint16(v)
	return nil
}

// PresharedKey returns the base64 preshared key, or "".
func (p *Peer) PresharedKey() string {
	return p.presharedKey
}

// SetPresharedKey validates and stores a base64 key. Empty clears it.
// An invalid key leaves the previous value in place.
func (p *Peer) SetPresharedKey(key string) error {
	k, err := normalizeKey(AttrPresharedKey.Token(), key)
	if err != nil {
		return err
	}
	p.presharedKey = k
	return nil
}

// PublicKey returns the base64 public key, or "".
func (p *Peer) PublicKey() string {
	return p.publicKey
}

// SetPublicKey validates and stores a base64 key. Empty clears it.
// An invalid key leaves the previous value in place.
func (p *Peer) SetPublicKey(key string) error {
	k, err := normalizeKey(AttrPublicKey.Token(), key)
	if err != nil {
		return err
	}
	p.publicKey = k
	return nil
}

// Clone returns a deep copy of the peer.
func (p *Peer) Clone() Peer {
	c := *p
	c.allowedIPs = slices.Clone(p.allowedIPs)
	c.endpoint = p.Endpoint()
	return c
}

// Equal reports whether both peers hold the same values.
func (p *Peer) Equal(other *Peer) bool {
	if other == nil {
		return false
	}
	if p.EndpointString() != other.EndpointString() ||
		p.persistentKeepalive != other.persistentKeepalive ||
		p.presharedKey != other.presharedKey ||
		p.publicKey != other.publicKey {
		return false
	}
	return slices.Equal(p.allowedIPs, other.allowedIPs)
}

// PeerConfig converts the peer into a wgctrl peer configuration that replaces the
// device's allowed IPs. The endpoint is left for the caller to resolve.
func (p *Peer) PeerConfig() (wgtypes.PeerConfig, error) {
	if p.publicKey == "" {
		return wgtypes.PeerConfig{}, ValidationError{Field: AttrPublicKey.Token(), Message: "required", Err: ErrMissingPublicKey}
	}
	pub, err := wgtypes.ParseKey(p.publicKey)
	if err != nil {
		return wgtypes.PeerConfig{}, formatError(AttrPublicKey.Token(), p.publicKey, err)
	}

	cfg := wgtypes.PeerConfig{
		PublicKey:         pub,
		ReplaceAllowedIPs: true,
	}

	if p.presharedKey != "" {
		psk, err := wgtypes.ParseKey(p.presharedKey)
		if err != nil {
			return wgtypes.PeerConfig{}, formatError(AttrPresharedKey.Token(), p.presharedKey, err)
		}
		cfg.PresharedKey = &psk
	}

	if p.persistentKeepalive > 0 {
		keepalive := time.Duration(p.persistentKeepalive) * time.Second
		cfg.PersistentKeepaliveInterval = &keepalive
	}

	for _, n := range p.allowedIPs {
		cfg.AllowedIPs = append(cfg.AllowedIPs, *n.Prefix().Masked().IPNet())
	}

	return cfg, nil
}

func parseNetworks(values []string) ([]InetNetwork, error) {
	networks := make([]InetNetwork, 0, len(values))
	for _, v := range values {
		n, err := ParseNetwork(v)
		if err != nil {
			return nil, err
		}
		networks = append(networks, n)
	}
	return networks, nil
}
