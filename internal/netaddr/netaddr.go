// Package netaddr works out the address other devices on the LAN can use to
// reach this machine.
package netaddr

import (
	"net"
	"net/url"
	"strconv"
)

// Fallback is returned when no usable interface address exists.
const Fallback = "localhost"

// Interface is the subset of a network interface LocalIPv4 looks at.
type Interface struct {
	Name  string
	Flags net.Flags
	Addrs []net.Addr
}

// interfaces lists the host's interfaces. Tests replace it.
var interfaces = systemInterfaces

func systemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		out = append(out, Interface{Name: iface.Name, Flags: iface.Flags, Addrs: addrs})
	}
	return out, nil
}

// LocalIPv4 returns the first IPv4 address of an interface that is up and
// not a loopback, or Fallback.
func LocalIPv4() string {
	ifaces, err := interfaces()
	if err != nil {
		return Fallback
	}
	return pickIPv4(ifaces)
}

func pickIPv4(ifaces []Interface) string {
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		for _, addr := range iface.Addrs {
			var ip net.IP
			switch a := addr.(type) {
			case *net.IPNet:
				ip = a.IP
			case *net.IPAddr:
				ip = a.IP
			}
			if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
				return ip4.String()
			}
		}
	}
	return Fallback
}

// URL builds scheme://host:port. IPv6 hosts are bracketed.
func URL(scheme, host string, port int) string {
	if scheme == "" {
		scheme = "http"
	}
	u := url.URL{Scheme: scheme, Host: net.JoinHostPort(host, strconv.Itoa(port))}
	return u.String()
}
