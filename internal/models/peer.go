package models

// PeerFields is the string form of a peer as shown in an editor.
// Empty strings mean "absent".
type PeerFields struct {
	AllowedIPs          string `yaml:"allowed_ips,omitempty"`
	Endpoint            string `yaml:"endpoint,omitempty"`
	PersistentKeepalive string `yaml:"persistent_keepalive,omitempty"`
	PresharedKey        string `yaml:"preshared_key,omitempty"`
	PublicKey           string `yaml:"public_key,omitempty"`
}
