package wireguard

import (
	"errors"
	"strings"

	"inet.af/netaddr"
)

// InetNetwork is an IP address plus prefix length, written addr/prefix.
// The address is kept as given; host bits are not masked off.
type InetNetwork struct {
	prefix netaddr.IPPrefix
}

// ParseNetwork parses a CIDR such as 10.0.0.0/8 or fd00::/64.
func ParseNetwork(text string) (InetNetwork, error) {
	s := strings.TrimSpace(text)

	addr, bits, ok := strings.Cut(s, "/")
	if !ok {
		return InetNetwork{}, formatError("network", text, errors.New("missing prefix length"))
	}
	if bits == "" || strings.Trim(bits, "0123456789") != "" {
		return InetNetwork{}, formatError("network", text, errors.New("prefix length is not a number"))
	}

	ip, err := netaddr.ParseIP(addr)
	if err != nil {
		return InetNetwork{}, formatError("network", text, err)
	}
	if ip.Zone() != "" {
		return InetNetwork{}, formatError("network", text, errors.New("zoned addresses are not allowed"))
	}

	prefix, err := netaddr.ParseIPPrefix(s)
	if err != nil {
		return InetNetwork{}, formatError("network", text, errors.New("prefix length out of range"))
	}
	return InetNetwork{prefix: prefix}, nil
}

// Prefix returns the network as a netaddr prefix.
func (n InetNetwork) Prefix() netaddr.IPPrefix {
	return n.prefix
}

// IsIPv4 reports whether the network address is IPv4.
func (n InetNetwork) IsIPv4() bool {
	return n.prefix.IP().Is4()
}

func (n InetNetwork) String() string {
	if !n.prefix.IsValid() {
		return ""
	}
	return n.prefix.String()
}

func networksToStrings(networks []InetNetwork) []string {
	out := make([]string, len(networks))
	for i, n := range networks {
		out[i] = n.String()
	}
	return out
}
