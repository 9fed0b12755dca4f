// Package netutil finds addresses of the local machine.
package netutil

import (
	"net"
)

const fallbackIP = "127.0.0.1"

// LocalIP returns the source address the machine would use for outbound
// traffic. Dialing UDP sends no packets; it only selects a route. When no
// route exists the loopback address is returned.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return fallbackIP
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil {
		return fallbackIP
	}
	return addr.IP.String()
}

// FirstAdapterIP returns the first IPv4 address of an interface that is up
// and not a loopback, or "0.0.0.0" when there is none.
func FirstAdapterIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "0.0.0.0"
	}
	return firstIPv4(ifaces, func(i net.Interface) ([]net.Addr, error) { return i.Addrs() })
}

func firstIPv4(ifaces []net.Interface, addrs func(net.Interface) ([]net.Addr, error)) string {
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		list, err := addrs(iface)
		if err != nil {
			continue
		}
		for _, a := range list {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
				return ip4.String()
			}
		}
	}
	return "0.0.0.0"
}
