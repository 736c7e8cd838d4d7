package wireguard

import (
	"slices"
	"strings"

	"inet.af/netaddr"
)

// DefaultRouteV4 routes all IPv4 traffic through the peer.
const DefaultRouteV4 = "0.0.0.0/0"

// DefaultRouteModRFC1918V4 is the IPv4 address space minus the RFC1918 private ranges.
var DefaultRouteModRFC1918V4 = []string{
	"0.0.0.0/5",
	"8.0.0.0/7",
	"11.0.0.0/8",
	"12.0.0.0/6",
	"16.0.0.0/4",
	"32.0.0.0/3",
	"64.0.0.0/2",
	"128.0.0.0/3",
	"160.0.0.0/5",
	"168.0.0.0/6",
	"172.0.0.0/12",
	"172.32.0.0/11",
	"172.64.0.0/10",
	"172.128.0.0/9",
	"173.0.0.0/8",
	"174.0.0.0/7",
	"176.0.0.0/4",
	"192.0.0.0/9",
	"192.128.0.0/11",
	"192.160.0.0/13",
	"192.169.0.0/16",
	"192.170.0.0/15",
	"192.172.0.0/14",
	"192.176.0.0/12",
	"192.192.0.0/10",
	"193.0.0.0/8",
	"194.0.0.0/7",
	"196.0.0.0/6",
	"200.0.0.0/5",
	"208.0.0.0/4",
}

// RFC1918V4 are the IPv4 private ranges left out of DefaultRouteModRFC1918V4.
var RFC1918V4 = []string{
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
}

// Entries are compared by their exact text; "IPv4" means "contains no ':'".

// HasDefaultRouteV4 reports whether set contains 0.0.0.0/0.
func HasDefaultRouteV4(set []string) bool {
	return slices.Contains(set, DefaultRouteV4)
}

// ExcludesPrivateIPs reports whether set contains every block of
// DefaultRouteModRFC1918V4.
func ExcludesPrivateIPs(set []string) bool {
	return containsAll(set, DefaultRouteModRFC1918V4)
}

// CanToggleExcludePrivateIPs reports whether ToggleExcludePrivateIPs would change set.
// Only a peer without siblings carries the default route alone.
func CanToggleExcludePrivateIPs(set []string, numSiblings int) bool {
	return numSiblings == 0 && (HasDefaultRouteV4(set) || ExcludesPrivateIPs(set))
}

// ToggleExcludePrivateIPs switches between routing all IPv4 traffic and routing
// everything except private address space. Every IPv4 entry is dropped and replaced:
// the default route becomes the RFC1918 complement plus dnsRoutes, and the
// complement becomes the default route. IPv6 entries are kept. When the toggle does
// not apply, a copy of set is returned unchanged.
func ToggleExcludePrivateIPs(set, dnsRoutes []string, numSiblings int) []string {
	if numSiblings > 0 {
		return slices.Clone(set)
	}

	hasDefault := HasDefaultRouteV4(set)
	hasComplement := ExcludesPrivateIPs(set)
	if !hasDefault && !hasComplement {
		return slices.Clone(set)
	}

	out := newRouteSet(len(DefaultRouteModRFC1918V4) + len(dnsRoutes))
	for _, r := range set {
		if strings.Contains(r, ":") {
			out.add(r)
		}
	}

	if hasDefault {
		out.add(DefaultRouteModRFC1918V4...)
		out.add(dnsRoutes...)
	} else {
		out.add(DefaultRouteV4)
	}

	return out.list()
}

// DNSRouteUpdate is the outcome of UpdateInterfaceDNSRoutes.
type DNSRouteUpdate struct {
	// AllowedIPs is the set with the old DNS routes replaced by Routes.
	AllowedIPs []string
	// Routes are the /32 routes for the IPv4 DNS servers.
	Routes []string
	// Modified is true when AllowedIPs should replace the visible set, which is
	// only the case while private IPs are excluded.
	Modified bool
}

// UpdateInterfaceDNSRoutes swaps oldRoutes for routes to the new DNS servers.
func UpdateInterfaceDNSRoutes(set, oldRoutes, dnsServers []string) DNSRouteUpdate {
	modified := ExcludesPrivateIPs(set)
	routes := DNSRoutes(dnsServers)

	out := newRouteSet(len(set) + len(routes))
	for _, r := range set {
		if !slices.Contains(oldRoutes, r) {
			out.add(r)
		}
	}
	out.add(routes...)

	return DNSRouteUpdate{
		AllowedIPs: out.list(),
		Routes:     routes,
		Modified:   modified,
	}
}

// DNSRoutes returns a /32 route for every IPv4 DNS server. IPv6 servers are skipped.
func DNSRoutes(dnsServers []string) []string {
	var routes []string
	for _, server := range dnsServers {
		server = strings.TrimSpace(server)
		if server == "" || strings.Contains(server, ":") {
			continue
		}
		routes = append(routes, server+"/32")
	}
	return routes
}

// SummarizeRoutes returns the smallest list of prefixes covering every entry of set.
func SummarizeRoutes(set []string) ([]string, error) {
	var b netaddr.IPSetBuilder
	for _, entry := range set {
		n, err := ParseNetwork(entry)
		if err != nil {
			return nil, err
		}
		b.AddPrefix(n.Prefix().Masked())
	}

	ipset, err := b.IPSet()
	if err != nil {
		return nil, err
	}

	prefixes := ipset.Prefixes()
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p.String()
	}
	return out, nil
}

func containsAll(set, want []string) bool {
	for _, w := range want {
		if !slices.Contains(set, w) {
			return false
		}
	}
	return true
}

// routeSet keeps insertion order and drops duplicates.
type routeSet struct {
	order []string
	seen  map[string]struct{}
}

func newRouteSet(capacity int) *routeSet {
	return &routeSet{
		order: make([]string, 0, capacity),
		seen:  make(map[string]struct{}, capacity),
	}
}

func (s *routeSet) add(routes ...string) {
	for _, r := range routes {
		if _, ok := s.seen[r]; ok {
			continue
		}
		s.seen[r] = struct{}{}
		s.order = append(s.order, r)
	}
}

func (s *routeSet) list() []string {
	return s.order
}
