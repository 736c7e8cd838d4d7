package wireguard

import (
	"io"
	"os"
)

// WritePeerFile writes the peer block to path with owner-only permissions.
func WritePeerFile(path string, peer *Peer) error {
	return os.WriteFile(path, []byte(peer.String()), 0600)
}

// WritePeer writes the peer block to w.
func WritePeer(w io.Writer, peer *Peer) error {
	_, err := io.WriteString(w, peer.String())
	return err
}
