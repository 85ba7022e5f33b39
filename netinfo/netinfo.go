// Package netinfo answers simple network environment queries for headless
// hosts, such as the IPv4 address bound to eth0/wlan0/ppp0.
package netinfo

import (
	"fmt"
	"net"
)

// IPAddress returns the first IPv4 address assigned to the named interface.
func IPAddress(iface string) (string, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return "", fmt.Errorf("interface %s: %w", iface, err)
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return "", fmt.Errorf("addresses of %s: %w", iface, err)
	}
	ip, ok := firstIPv4(addrs)
	if !ok {
		return "", fmt.Errorf("interface %s has no IPv4 address", iface)
	}
	return ip, nil
}

func firstIPv4(addrs []net.Addr) (string, bool) {
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), true
		}
	}
	return "", false
}

// InterfaceNames returns the names of all host interfaces, for diagnostics
// when a requested interface is missing.
func InterfaceNames() ([]string, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	names := make([]string, len(ifs))
	for i, ifi := range ifs {
		names[i] = ifi.Name
	}
	return names, nil
}
