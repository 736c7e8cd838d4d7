package wireguard

import (
	"regexp"

	"wgpeer/internal/models"
)

var tunnelNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_=+.-]+$`)

// ValidateFields checks staged editor values without touching a Peer.
// It reports every problem, not just the first.
func ValidateFields(f models.PeerFields) []error {
	var errs []error

	if f.PublicKey == "" {
		errs = append(errs, ValidationError{Field: AttrPublicKey.Token(), Message: "required", Err: ErrMissingPublicKey})
	} else if !ValidateKey(f.PublicKey) {
		errs = append(errs, ValidationError{Field: AttrPublicKey.Token(), Message: "invalid key"})
	}

	if f.PresharedKey != "" && !ValidateKey(f.PresharedKey) {
		errs = append(errs, ValidationError{Field: AttrPresharedKey.Token(), Message: "invalid key"})
	}

	if f.Endpoint != "" && !ValidateEndpoint(f.Endpoint) {
		errs = append(errs, ValidationError{Field: AttrEndpoint.Token(), Message: "invalid format (host:port)"})
	}

	if !ValidateAllowedIPs(f.AllowedIPs) {
		errs = append(errs, ValidationError{Field: AttrAllowedIPs.Token(), Message: "invalid CIDR"})
	}

	var probe Peer
	if err := probe.SetPersistentKeepalive(f.PersistentKeepalive); err != nil {
		errs = append(errs, ValidationError{Field: AttrPersistentKeepalive.Token(), Message: "must be 0-65535"})
	}

	return errs
}

// String-based validators for UI input validation before parsing.

// ValidateKey checks if a key decodes to a 32-byte WireGuard key. Surrounding
// whitespace is ignored, as it is when the key is assigned to a Peer.
func ValidateKey(key string) bool {
	k, err := normalizeKey("key", key)
	return err == nil && k != ""
}

// ValidateNetwork checks CIDR notation (e.g., 10.0.0.0/24).
func ValidateNetwork(cidr string) bool {
	_, err := ParseNetwork(cidr)
	return err == nil
}

// ValidateAllowedIPs checks comma-separated CIDRs.
func ValidateAllowedIPs(ips string) bool {
	for _, cidr := range SplitList(ips) {
		if !ValidateNetwork(cidr) {
			return false
		}
	}
	return true
}

// ValidateEndpoint checks host:port format.
func ValidateEndpoint(endpoint string) bool {
	_, err := ParseEndpoint(endpoint)
	return err == nil
}

// ValidateName checks if a tunnel name is valid.
func ValidateName(name string) bool {
	if name == "" || len(name) > 15 {
		return false
	}
	return tunnelNamePattern.MatchString(name)
}
