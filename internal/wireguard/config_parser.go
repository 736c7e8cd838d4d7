package wireguard

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const peerSectionHeader = "[Peer]"

// ParsePeerFile reads a .conf file holding a single [Peer] block.
func ParsePeerFile(path string) (*Peer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParsePeer(file)
}

// ParsePeerString parses a [Peer] block from a string.
func ParsePeerString(content string) (*Peer, error) {
	return ParsePeer(strings.NewReader(content))
}

// ParsePeer reads a [Peer] block. The first non-blank line must be the section
// header; blank lines are skipped and every other line goes through Peer.Parse.
func ParsePeer(r io.Reader) (*Peer, error) {
	scanner := bufio.NewScanner(r)
	peer := &Peer{}
	inPeerSection := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !inPeerSection {
			if !strings.EqualFold(line, peerSectionHeader) {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrNotPeerBlock)
			}
			inPeerSection = true
			continue
		}

		if err := peer.Parse(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !inPeerSection {
		return nil, ErrNotPeerBlock
	}

	return peer, nil
}
