package wireguard

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"

	"inet.af/netaddr"
)

// InetEndpoint is a host (literal address or DNS name) plus a UDP port.
type InetEndpoint struct {
	host string
	port uint16
}

// ParseEndpoint parses host:port. IPv6 literals must be bracketed, as in [fd00::1]:51820.
func ParseEndpoint(text string) (InetEndpoint, error) {
	s := strings.TrimSpace(text)

	var host, port string
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return InetEndpoint{}, formatError("endpoint", text, errors.New("missing closing bracket"))
		}
		host = s[1:end]
		rest := s[end+1:]
		if !strings.HasPrefix(rest, ":") {
			return InetEndpoint{}, formatError("endpoint", text, errors.New("missing port"))
		}
		port = rest[1:]
		ip, err := netaddr.ParseIP(host)
		if err != nil || !ip.Is6() {
			return InetEndpoint{}, formatError("endpoint", text, errors.New("bracketed host must be an IPv6 address"))
		}
	} else {
		i := strings.LastIndexByte(s, ':')
		if i < 0 {
			return InetEndpoint{}, formatError("endpoint", text, errors.New("missing port"))
		}
		host, port = s[:i], s[i+1:]
		if strings.Contains(host, ":") {
			return InetEndpoint{}, formatError("endpoint", text, errors.New("IPv6 host must be bracketed"))
		}
	}

	if host == "" {
		return InetEndpoint{}, formatError("endpoint", text, errors.New("missing host"))
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return InetEndpoint{}, formatError("endpoint", text, errors.New("port must be a number between 0 and 65535"))
	}

	return InetEndpoint{host: host, port: uint16(p)}, nil
}

// Host returns the host as written, without brackets.
func (e InetEndpoint) Host() string {
	return e.host
}

// Port returns the UDP port.
func (e InetEndpoint) Port() uint16 {
	return e.port
}

// String returns the unresolved host:port form.
func (e InetEndpoint) String() string {
	return net.JoinHostPort(e.host, strconv.Itoa(int(e.port)))
}

// Resolve looks up the endpoint host and returns a concrete address.
// IPv4 answers are preferred. A nil resolver uses net.DefaultResolver.
// Nothing is cached; the caller bounds latency through ctx.
func (e InetEndpoint) Resolve(ctx context.Context, resolver *net.Resolver) (netaddr.IPPort, error) {
	if ip, err := netaddr.ParseIP(e.host); err == nil {
		return netaddr.IPPortFrom(ip, e.port), nil
	}

	if resolver == nil {
		resolver = net.DefaultResolver
	}
	addrs, err := resolver.LookupIPAddr(ctx, e.host)
	if err != nil {
		return netaddr.IPPort{}, &HostResolutionError{Host: e.host, Err: err}
	}

	var chosen netaddr.IP
	for _, addr := range addrs {
		ip, ok := netaddr.FromStdIP(addr.IP)
		if !ok {
			continue
		}
		if ip.Is4() {
			chosen = ip
			break
		}
		if chosen.IsZero() {
			chosen = ip
		}
	}
	if chosen.IsZero() {
		return netaddr.IPPort{}, &HostResolutionError{Host: e.host, Err: errors.New("no addresses found")}
	}
	return netaddr.IPPortFrom(chosen, e.port), nil
}

// ResolvedString resolves the endpoint and returns it as ip:port.
func (e InetEndpoint) ResolvedString(ctx context.Context, resolver *net.Resolver) (string, error) {
	ipp, err := e.Resolve(ctx, resolver)
	if err != nil {
		return "", err
	}
	return ipp.String(), nil
}
