package wireguard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPublicKey    = "xTIBA5rboUvnH4htodjb60Y7YAf21J7YQMlNGC8HQ14="
	testPresharedKey = "FpCyhws9cxwWoV4xELtfJvjJN+zQVRi32YulM0ieCGQ="
)

func parseLines(t *testing.T, lines ...string) *Peer {
	t.Helper()
	p := &Peer{}
	for _, line := range lines {
		require.NoError(t, p.Parse(line), line)
	}
	return p
}

func TestPeerSerializesInFixedOrder(t *testing.T) {
	p := parseLines(t,
		"PublicKey = "+testPublicKey,
		"Endpoint = 203.0.113.1:51820",
		"AllowedIPs = 0.0.0.0/0",
		"allowedips = ::/0",
		"PersistentKeepalive = 25",
		"PresharedKey = "+testPresharedKey,
	)

	want := "[Peer]\n" +
		"AllowedIPs = 0.0.0.0/0, ::/0\n" +
		"Endpoint = 203.0.113.1:51820\n" +
		"PersistentKeepalive = 25\n" +
		"PresharedKey = " + testPresharedKey + "\n" +
		"PublicKey = " + testPublicKey + "\n"
	assert.Equal(t, want, p.String())
}

func TestPeerEmpty(t *testing.T) {
	var p Peer
	assert.Equal(t, "[Peer]\n", p.String())
	assert.Empty(t, p.AllowedIPs())
	assert.Nil(t, p.Endpoint())
	assert.Equal(t, "", p.EndpointString())
	assert.Equal(t, 0, p.PersistentKeepalive())
}

func TestPeerKeepaliveZeroOmitted(t *testing.T) {
	p := parseLines(t, "PersistentKeepalive = 0")
	assert.Equal(t, "[Peer]\n", p.String())
	assert.Equal(t, "", p.PersistentKeepaliveString())
}

func TestPeerParseUnknownLine(t *testing.T) {
	inputs := []string{"Foo = bar", "", "# comment", "PublicKey"}

	for _, line := range inputs {
		t.Run(line, func(t *testing.T) {
			var p Peer
			err := p.Parse(line)
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "line", fe.Field)
			assert.Equal(t, line, fe.Text)
		})
	}
}

func TestPeerKeyValidationKeepsPreviousValue(t *testing.T) {
	p := parseLines(t, "PublicKey = "+testPublicKey, "PresharedKey = "+testPresharedKey)

	tests := []struct {
		name string
		set  func(string) error
		get  func() string
		want string
	}{
		{name: "public", set: p.SetPublicKey, get: p.PublicKey, want: testPublicKey},
		{name: "preshared", set: p.SetPresharedKey, get: p.PresharedKey, want: testPresharedKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, bad := range []string{"not base64!", "AAAA", testPublicKey[:40] + "===="} {
				err := tt.set(bad)
				var fe *FormatError
				require.True(t, errors.As(err, &fe), bad)
				assert.Equal(t, tt.want, tt.get())
			}
		})
	}
}

func TestPeerClearKeys(t *testing.T) {
	p := parseLines(t, "PublicKey = "+testPublicKey, "PresharedKey = "+testPresharedKey)
	require.NoError(t, p.SetPresharedKey(""))
	require.NoError(t, p.SetPublicKey("  "))
	assert.Equal(t, "", p.PresharedKey())
	assert.Equal(t, "", p.PublicKey())
}

func TestPeerSetAllowedIPs(t *testing.T) {
	p := parseLines(t, "AllowedIPs = 10.0.0.0/8")

	require.NoError(t, p.SetAllowedIPs("192.168.0.0/16, fd00::/64"))
	assert.Equal(t, "192.168.0.0/16, fd00::/64", p.AllowedIPsString())

	err := p.SetAllowedIPs("10.0.0.0/8, bogus")
	require.Error(t, err)
	assert.Equal(t, "192.168.0.0/16, fd00::/64", p.AllowedIPsString())

	require.NoError(t, p.SetAllowedIPs(""))
	assert.Empty(t, p.AllowedIPs())
}

func TestPeerAllowedIPsAccumulate(t *testing.T) {
	p := parseLines(t, "AllowedIPs = 10.0.0.0/8", "AllowedIPs = 10.0.0.0/8, fd00::/64")
	assert.Equal(t, "10.0.0.0/8, 10.0.0.0/8, fd00::/64", p.AllowedIPsString())
}

func TestPeerSetPersistentKeepalive(t *testing.T) {
	var p Peer
	require.NoError(t, p.SetPersistentKeepalive("25"))
	assert.Equal(t, 25, p.PersistentKeepalive())

	for _, bad := range []string{"abc", "-1", "65536", "2.5"} {
		err := p.SetPersistentKeepalive(bad)
		var fe *FormatError
		require.True(t, errors.As(err, &fe), bad)
		assert.Equal(t, "PersistentKeepalive", fe.Field)
		assert.Equal(t, 25, p.PersistentKeepalive())
	}

	require.NoError(t, p.SetPersistentKeepalive(""))
	assert.Equal(t, 0, p.PersistentKeepalive())
}

func TestPeerEndpoint(t *testing.T) {
	var p Peer
	require.NoError(t, p.SetEndpoint("[fd00::1]:51820"))
	assert.Equal(t, "[fd00::1]:51820", p.EndpointString())

	require.Error(t, p.SetEndpoint("fd00::1"))
	assert.Equal(t, "[fd00::1]:51820", p.EndpointString())

	ep := p.Endpoint()
	require.NotNil(t, ep)
	assert.Equal(t, uint16(51820), ep.Port())

	require.NoError(t, p.SetEndpoint(""))
	assert.Nil(t, p.Endpoint())
}

func TestPeerResolvedEndpointString(t *testing.T) {
	var p Peer
	_, err := p.ResolvedEndpointString(context.Background(), nil)
	var hre *HostResolutionError
	require.True(t, errors.As(err, &hre))
	assert.ErrorIs(t, err, ErrNoEndpoint)

	require.NoError(t, p.SetEndpoint("192.0.2.7:4500"))
	got, err := p.ResolvedEndpointString(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.7:4500", got)
}

func TestPeerCloneIsIndependent(t *testing.T) {
	p := parseLines(t, "PublicKey = "+testPublicKey, "AllowedIPs = 10.0.0.0/8", "Endpoint = 10.0.0.1:51820")
	c := p.Clone()
	require.True(t, p.Equal(&c))

	require.NoError(t, c.SetAllowedIPs("0.0.0.0/0"))
	require.NoError(t, c.SetEndpoint("10.0.0.2:51820"))

	assert.Equal(t, "10.0.0.0/8", p.AllowedIPsString())
	assert.Equal(t, "10.0.0.1:51820", p.EndpointString())
	assert.False(t, p.Equal(&c))
	assert.False(t, p.Equal(nil))
}

func TestPeerConfig(t *testing.T) {
	var empty Peer
	_, err := empty.PeerConfig()
	assert.ErrorIs(t, err, ErrMissingPublicKey)

	p := parseLines(t,
		"PublicKey = "+testPublicKey,
		"PresharedKey = "+testPresharedKey,
		"AllowedIPs = 10.0.0.1/24, fd00::/64",
		"PersistentKeepalive = 25",
	)

	cfg, err := p.PeerConfig()
	require.NoError(t, err)
	assert.Equal(t, testPublicKey, cfg.PublicKey.String())
	require.NotNil(t, cfg.PresharedKey)
	assert.Equal(t, testPresharedKey, cfg.PresharedKey.String())
	require.NotNil(t, cfg.PersistentKeepaliveInterval)
	assert.Equal(t, 25*time.Second, *cfg.PersistentKeepaliveInterval)
	assert.True(t, cfg.ReplaceAllowedIPs)
	assert.Nil(t, cfg.Endpoint)

	require.Len(t, cfg.AllowedIPs, 2)
	assert.Equal(t, "10.0.0.0/24", cfg.AllowedIPs[0].String())
	assert.Equal(t, "fd00::/64", cfg.AllowedIPs[1].String())
}
