package wireguard

import (
	"slices"

	"wgpeer/internal/models"
)

// Field identifies which part of a PeerEditor changed.
type Field int

const (
	FieldAll Field = iota
	FieldAllowedIPs
	FieldEndpoint
	FieldPersistentKeepalive
	FieldPresharedKey
	FieldPublicKey
	FieldCanToggleExcludePrivateIPs
)

func (f Field) String() string {
	switch f {
	case FieldAll:
		return "all"
	case FieldAllowedIPs:
		return "allowedIPs"
	case FieldEndpoint:
		return "endpoint"
	case FieldPersistentKeepalive:
		return "persistentKeepalive"
	case FieldPresharedKey:
		return "presharedKey"
	case FieldPublicKey:
		return "publicKey"
	case FieldCanToggleExcludePrivateIPs:
		return "canToggleExcludePrivateIPs"
	default:
		return "unknown"
	}
}

// PeerEditor is a staging copy of a Peer for interactive editing. Values are held as
// strings and only validated by CommitTo.
//
// A PeerEditor is not safe for concurrent use.
type PeerEditor struct {
	fields             models.PeerFields
	numSiblings        int
	interfaceDNSRoutes []string

	// OnChange, if set, is called after a field changes.
	OnChange func(Field)
}

// NewPeerEditor returns an editor loaded from p. A nil p yields an empty editor.
func NewPeerEditor(p *Peer) *PeerEditor {
	e := &PeerEditor{}
	if p == nil {
		p = &Peer{}
	}
	e.LoadFrom(p)
	return e
}

// LoadFrom copies every field of p into the editor.
func (e *PeerEditor) LoadFrom(p *Peer) {
	e.fields = models.PeerFields{
		AllowedIPs:          p.AllowedIPsString(),
		Endpoint:            p.EndpointString(),
		PersistentKeepalive: p.PersistentKeepaliveString(),
		PresharedKey:        p.PresharedKey(),
		PublicKey:           p.PublicKey(),
	}
}

// CommitTo writes the staged values into p. If any value is rejected, or p would be
// left without a public key, p is restored to its previous state and the error is
// returned. On success the editor reloads from p and reports FieldAll.
func (e *PeerEditor) CommitTo(p *Peer) error {
	snapshot := p.Clone()

	if err := e.apply(p); err != nil {
		*p = snapshot
		return err
	}
	if p.PublicKey() == "" {
		*p = snapshot
		return ValidationError{Field: AttrPublicKey.Token(), Message: "missing public key", Err: ErrMissingPublicKey}
	}

	e.LoadFrom(p)
	e.notify(FieldAll)
	return nil
}

func (e *PeerEditor) apply(p *Peer) error {
	if err := p.SetAllowedIPs(e.fields.AllowedIPs); err != nil {
		return err
	}
	if err := p.SetEndpoint(e.fields.Endpoint); err != nil {
		return err
	}
	if err := p.SetPersistentKeepalive(e.fields.PersistentKeepalive); err != nil {
		return err
	}
	if err := p.SetPresharedKey(e.fields.PresharedKey); err != nil {
		return err
	}
	return p.SetPublicKey(e.fields.PublicKey)
}

// Fields returns the staged values.
func (e *PeerEditor) Fields() models.PeerFields {
	return e.fields
}

// SetFields replaces every staged value and reports FieldAll.
func (e *PeerEditor) SetFields(f models.PeerFields) {
	e.fields = f
	e.notify(FieldAll)
}

func (e *PeerEditor) AllowedIPs() string          { return e.fields.AllowedIPs }
func (e *PeerEditor) Endpoint() string            { return e.fields.Endpoint }
func (e *PeerEditor) PersistentKeepalive() string { return e.fields.PersistentKeepalive }
func (e *PeerEditor) PresharedKey() string        { return e.fields.PresharedKey }
func (e *PeerEditor) PublicKey() string           { return e.fields.PublicKey }

// SetAllowedIPs stages a comma-separated list of networks.
func (e *PeerEditor) SetAllowedIPs(v string) {
	if e.fields.AllowedIPs == v {
		return
	}
	e.fields.AllowedIPs = v
	e.notify(FieldAllowedIPs)
	e.notify(FieldCanToggleExcludePrivateIPs)
}

func (e *PeerEditor) SetEndpoint(v string) {
	e.setString(&e.fields.Endpoint, v, FieldEndpoint)
}

func (e *PeerEditor) SetPersistentKeepalive(v string) {
	e.setString(&e.fields.PersistentKeepalive, v, FieldPersistentKeepalive)
}

func (e *PeerEditor) SetPresharedKey(v string) {
	e.setString(&e.fields.PresharedKey, v, FieldPresharedKey)
}

func (e *PeerEditor) SetPublicKey(v string) {
	e.setString(&e.fields.PublicKey, v, FieldPublicKey)
}

func (e *PeerEditor) setString(dst *string, v string, field Field) {
	if *dst == v {
		return
	}
	*dst = v
	e.notify(field)
}

// NumSiblings returns the number of other peers on the same interface.
func (e *PeerEditor) NumSiblings() int {
	return e.numSiblings
}

// SetNumSiblings records how many other peers share the interface.
func (e *PeerEditor) SetNumSiblings(n int) {
	e.numSiblings = n
	e.notify(FieldCanToggleExcludePrivateIPs)
}

// InterfaceDNSRoutes returns the /32 routes derived from the interface DNS servers.
func (e *PeerEditor) InterfaceDNSRoutes() []string {
	return slices.Clone(e.interfaceDNSRoutes)
}

// SetInterfaceDNSRoutes recomputes the DNS routes from a comma-separated server list.
// The staged allowed IPs only change while private IPs are excluded.
func (e *PeerEditor) SetInterfaceDNSRoutes(dnsServers string) {
	update := UpdateInterfaceDNSRoutes(SplitList(e.fields.AllowedIPs), e.interfaceDNSRoutes, SplitList(dnsServers))
	e.interfaceDNSRoutes = update.Routes
	if update.Modified {
		e.SetAllowedIPs(JoinList(update.AllowedIPs))
	}
}

// CanToggleExcludePrivateIPs reports whether ToggleExcludePrivateIPs applies.
func (e *PeerEditor) CanToggleExcludePrivateIPs() bool {
	return CanToggleExcludePrivateIPs(SplitList(e.fields.AllowedIPs), e.numSiblings)
}

// ToggleExcludePrivateIPs flips the staged allowed IPs between the IPv4 default
// route and the default route minus private ranges. It reports whether anything
// changed.
func (e *PeerEditor) ToggleExcludePrivateIPs() bool {
	set := SplitList(e.fields.AllowedIPs)
	if !CanToggleExcludePrivateIPs(set, e.numSiblings) {
		return false
	}
	e.SetAllowedIPs(JoinList(ToggleExcludePrivateIPs(set, e.interfaceDNSRoutes, e.numSiblings)))
	return true
}

func (e *PeerEditor) notify(field Field) {
	if e.OnChange != nil {
		e.OnChange(field)
	}
}
