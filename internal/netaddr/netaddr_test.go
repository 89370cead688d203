package netaddr

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ipNet(s string) *net.IPNet {
	ip, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	n.IP = ip
	return n
}

func TestPickIPv4(t *testing.T) {
	ifaces := []Interface{
		{Name: "lo", Flags: net.FlagUp | net.FlagLoopback, Addrs: []net.Addr{ipNet("127.0.0.1/8")}},
		{Name: "docker0", Flags: 0, Addrs: []net.Addr{ipNet("172.17.0.1/16")}},
		{Name: "en0", Flags: net.FlagUp, Addrs: []net.Addr{ipNet("fe80::1/64"), ipNet("192.168.1.42/24")}},
		{Name: "en1", Flags: net.FlagUp, Addrs: []net.Addr{ipNet("10.0.0.7/8")}},
	}
	assert.Equal(t, "192.168.1.42", pickIPv4(ifaces))
}

func TestPickIPv4Fallback(t *testing.T) {
	assert.Equal(t, Fallback, pickIPv4(nil))
	assert.Equal(t, Fallback, pickIPv4([]Interface{
		{Name: "lo", Flags: net.FlagUp | net.FlagLoopback, Addrs: []net.Addr{ipNet("127.0.0.1/8")}},
		{Name: "en0", Flags: net.FlagUp, Addrs: []net.Addr{ipNet("fe80::1/64")}},
	}))
}

func TestLocalIPv4InterfaceError(t *testing.T) {
	orig := interfaces
	interfaces = func() ([]Interface, error) { return nil, errors.New("no netlink") }
	t.Cleanup(func() { interfaces = orig })

	assert.Equal(t, "localhost", LocalIPv4())
}

func TestLocalIPv4UsesInterfaces(t *testing.T) {
	orig := interfaces
	interfaces = func() ([]Interface, error) {
		return []Interface{{Name: "wlan0", Flags: net.FlagUp, Addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("192.168.0.9")}}}}, nil
	}
	t.Cleanup(func() { interfaces = orig })

	assert.Equal(t, "192.168.0.9", LocalIPv4())
}

func TestURL(t *testing.T) {
	assert.Equal(t, "http://192.168.1.42:3000", URL("http", "192.168.1.42", 3000))
	assert.Equal(t, "http://localhost:5173", URL("", "localhost", 5173))
	assert.Equal(t, "https://[fe80::1]:8443", URL("https", "fe80::1", 8443))
}
