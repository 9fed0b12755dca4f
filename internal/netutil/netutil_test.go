package netutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalIPIsIPv4OrLoopback(t *testing.T) {
	ip := net.ParseIP(LocalIP())
	if assert.NotNil(t, ip) {
		assert.NotNil(t, ip.To4())
	}
}

func TestFirstIPv4(t *testing.T) {
	ifaces := []net.Interface{
		{Index: 1, Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
		{Index: 2, Name: "eth0", Flags: 0},
		{Index: 3, Name: "eth1", Flags: net.FlagUp},
		{Index: 4, Name: "eth2", Flags: net.FlagUp},
	}
	addrs := map[string][]net.Addr{
		"lo":   {&net.IPNet{IP: net.ParseIP("127.0.0.1")}},
		"eth0": {&net.IPNet{IP: net.ParseIP("10.0.0.9")}},
		"eth1": {&net.IPNet{IP: net.ParseIP("fe80::1")}},
		"eth2": {&net.IPAddr{IP: net.ParseIP("192.168.1.20")}},
	}
	got := firstIPv4(ifaces, func(i net.Interface) ([]net.Addr, error) { return addrs[i.Name], nil })
	assert.Equal(t, "192.168.1.20", got)

	assert.Equal(t, "0.0.0.0", firstIPv4(ifaces[:2], func(i net.Interface) ([]net.Addr, error) { return addrs[i.Name], nil }))
}
