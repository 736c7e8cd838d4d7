package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"wgpeer/internal/wireguard"
)

// PeerForm edits a single peer through a wireguard.PeerEditor. Entries write into
// the editor as the user types; the editor pushes canonical values back through
// OnChange, e.g. after a commit or a toggle.
type PeerForm struct {
	peer   *wireguard.Peer
	editor *wireguard.PeerEditor

	publicKeyEntry           *widget.Entry
	allowedIPsEntry          *widget.Entry
	endpointEntry            *widget.Entry
	persistentKeepaliveEntry *widget.Entry
	presharedKeyEntry        *widget.Entry
	dnsEntry                 *widget.Entry
	excludePrivateButton     *widget.Button

	onSave func(peer *wireguard.Peer) error
}

// NewPeerForm creates a form bound to peer. numSiblings is the number of other
// peers on the same interface; dnsServers is the interface DNS list.
func NewPeerForm(peer *wireguard.Peer, numSiblings int, dnsServers string, onSave func(*wireguard.Peer) error) *PeerForm {
	f := &PeerForm{
		peer:                     peer,
		editor:                   wireguard.NewPeerEditor(peer),
		publicKeyEntry:           widget.NewEntry(),
		allowedIPsEntry:          widget.NewEntry(),
		endpointEntry:            widget.NewEntry(),
		persistentKeepaliveEntry: widget.NewEntry(),
		presharedKeyEntry:        widget.NewEntry(),
		dnsEntry:                 widget.NewEntry(),
		onSave:                   onSave,
	}
	f.excludePrivateButton = widget.NewButton("Exclude private IPs", f.toggleExcludePrivateIPs)

	f.publicKeyEntry.SetPlaceHolder("Base64 encoded public key")
	f.allowedIPsEntry.SetPlaceHolder("e.g., 10.0.0.0/24, 192.168.1.0/24")
	f.endpointEntry.SetPlaceHolder("e.g., vpn.example.com:51820 (optional)")
	f.persistentKeepaliveEntry.SetPlaceHolder("e.g., 25 (seconds, optional)")
	f.presharedKeyEntry.SetPlaceHolder("Base64 encoded key (optional)")
	f.dnsEntry.SetPlaceHolder("e.g., 1.1.1.1, 8.8.8.8 (interface DNS)")
	f.dnsEntry.SetText(dnsServers)

	f.editor.SetNumSiblings(numSiblings)
	f.editor.SetInterfaceDNSRoutes(dnsServers)
	f.refresh(wireguard.FieldAll)

	f.editor.OnChange = f.refresh
	f.publicKeyEntry.OnChanged = f.editor.SetPublicKey
	f.allowedIPsEntry.OnChanged = f.editor.SetAllowedIPs
	f.endpointEntry.OnChanged = f.editor.SetEndpoint
	f.persistentKeepaliveEntry.OnChanged = f.editor.SetPersistentKeepalive
	f.presharedKeyEntry.OnChanged = f.editor.SetPresharedKey
	f.dnsEntry.OnChanged = f.editor.SetInterfaceDNSRoutes

	return f
}

// Build returns the form content.
func (f *PeerForm) Build() fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabel("Public Key *"),
		f.publicKeyEntry,

		widget.NewLabel("Allowed IPs"),
		f.allowedIPsEntry,
		f.excludePrivateButton,

		widget.NewLabel("Endpoint"),
		f.endpointEntry,

		widget.NewLabel("Persistent Keepalive"),
		f.persistentKeepaliveEntry,

		widget.NewLabel("Preshared Key"),
		f.presharedKeyEntry,

		widget.NewLabel("Interface DNS"),
		f.dnsEntry,
	)
}

// Save validates the staged values, commits them and calls onSave.
func (f *PeerForm) Save() error {
	if errs := wireguard.ValidateFields(f.editor.Fields()); len(errs) > 0 {
		return errs[0]
	}
	if err := f.editor.CommitTo(f.peer); err != nil {
		return err
	}
	if f.onSave != nil {
		return f.onSave(f.peer)
	}
	return nil
}

func (f *PeerForm) toggleExcludePrivateIPs() {
	f.editor.ToggleExcludePrivateIPs()
}

func (f *PeerForm) refresh(field wireguard.Field) {
	all := field == wireguard.FieldAll

	if all || field == wireguard.FieldPublicKey {
		setText(f.publicKeyEntry, f.editor.PublicKey())
	}
	if all || field == wireguard.FieldAllowedIPs {
		setText(f.allowedIPsEntry, f.editor.AllowedIPs())
	}
	if all || field == wireguard.FieldEndpoint {
		setText(f.endpointEntry, f.editor.Endpoint())
	}
	if all || field == wireguard.FieldPersistentKeepalive {
		setText(f.persistentKeepaliveEntry, f.editor.PersistentKeepalive())
	}
	if all || field == wireguard.FieldPresharedKey {
		setText(f.presharedKeyEntry, f.editor.PresharedKey())
	}
	if all || field == wireguard.FieldCanToggleExcludePrivateIPs {
		if f.editor.CanToggleExcludePrivateIPs() {
			f.excludePrivateButton.Enable()
		} else {
			f.excludePrivateButton.Disable()
		}
	}
}

// setText skips identical text so entry callbacks do not echo back into the editor.
func setText(e *widget.Entry, text string) {
	if e.Text != text {
		e.SetText(text)
	}
}
