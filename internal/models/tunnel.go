package models

// TunnelState records which tunnels were up when state was last saved.
type TunnelState struct {
	Running []string `yaml:"running"`
}
