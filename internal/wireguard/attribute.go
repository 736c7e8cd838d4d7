package wireguard

import (
	"fmt"
	"strings"
)

// Attribute is one of the keys recognised inside a [Peer] block.
type Attribute int

const (
	AttrAllowedIPs Attribute = iota
	AttrEndpoint
	AttrPersistentKeepalive
	AttrPresharedKey
	AttrPublicKey
)

// Attributes lists every attribute in serialization order.
var Attributes = []Attribute{
	AttrAllowedIPs,
	AttrEndpoint,
	AttrPersistentKeepalive,
	AttrPresharedKey,
	AttrPublicKey,
}

var attributeTokens = map[Attribute]string{
	AttrAllowedIPs:          "AllowedIPs",
	AttrEndpoint:            "Endpoint",
	AttrPersistentKeepalive: "PersistentKeepalive",
	AttrPresharedKey:        "PresharedKey",
	AttrPublicKey:           "PublicKey",
}

// Token returns the canonical key spelling.
func (a Attribute) Token() string {
	if t, ok := attributeTokens[a]; ok {
		return t
	}
	return fmt.Sprintf("Attribute(%d)", int(a))
}

func (a Attribute) String() string {
	return a.Token()
}

// MatchAttribute returns the attribute whose key appears before the first '=' on
// line, compared case-insensitively. Blank lines and lines without '=' never match.
func MatchAttribute(line string) (Attribute, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return 0, false
	}
	key = strings.TrimSpace(key)
	for _, a := range Attributes {
		if strings.EqualFold(key, a.Token()) {
			return a, true
		}
	}
	return 0, false
}

// ParseValue returns the trimmed text after the first '='.
func (a Attribute) ParseValue(line string) string {
	_, value, _ := strings.Cut(line, "=")
	return strings.TrimSpace(value)
}

// ParseList splits the value on commas, dropping empty elements.
func (a Attribute) ParseList(line string) []string {
	return SplitList(a.ParseValue(line))
}

// Compose renders "Key = value\n". Callers skip absent values themselves.
func (a Attribute) Compose(value string) string {
	return fmt.Sprintf("%s = %s\n", a.Token(), value)
}

// ComposeList renders "Key = v1, v2, ...\n".
func (a Attribute) ComposeList(values []string) string {
	return a.Compose(JoinList(values))
}

// SplitList splits a comma-separated list, trimming each element and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinList joins values with ", ".
func JoinList(values []string) string {
	return strings.Join(values, ", ")
}
