package netutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalIPv4s(t *testing.T) {
	ips := LocalIPv4s()
	require.NotNil(t, ips, "always returns a slice, possibly empty")

	for _, s := range ips {
		ip := net.ParseIP(s)
		require.NotNil(t, ip, "entry %q parses as an IP", s)
		assert.NotNil(t, ip.To4(), "entry %q is IPv4", s)
		assert.False(t, ip.IsLoopback(), "loopback addresses are excluded")
	}
}
