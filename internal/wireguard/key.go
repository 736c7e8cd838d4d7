package wireguard

import (
	"strings"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// normalizeKey validates a base64 key for the named field.
// Empty input means "absent" and yields "". The text is kept as given so that
// serialization reproduces it exactly.
func normalizeKey(field, text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", nil
	}
	if _, err := wgtypes.ParseKey(s); err != nil {
		return "", formatError(field, text, err)
	}
	return s, nil
}
