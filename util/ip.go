package util

import (
	"fmt"
	"net"
	"strings"
)

// ParseSubnets parses CIDR ranges and bare addresses into net.IPNets. A bare
// address becomes a single host range.
func ParseSubnets(subnets []string) ([]*net.IPNet, error) {
	var parsedSubnets []*net.IPNet

	for _, entry := range subnets {
		entry = strings.TrimSpace(entry)

		// Try to parse out CIDR range
		_, block, err := net.ParseCIDR(entry)
		if err != nil {
			ipAddr := net.ParseIP(entry)
			if ipAddr == nil {
				return nil, fmt.Errorf("invalid address or subnet %q: %v", entry, err)
			}
			block = hostSubnet(ipAddr)
		}

		parsedSubnets = append(parsedSubnets, block)
	}
	return parsedSubnets, nil
}

// hostSubnet returns the /32 or /128 range holding only ip
func hostSubnet(ip net.IP) *net.IPNet {
	if ipv4 := ip.To4(); ipv4 != nil {
		return &net.IPNet{IP: ipv4, Mask: net.CIDRMask(32, 32)}
	}
	return &net.IPNet{IP: ip.To16(), Mask: net.CIDRMask(128, 128)}
}

//ContainsIP checks if a collection of subnets contains an IP
func ContainsIP(subnets []*net.IPNet, ip net.IP) bool {
	// convert once rather than in every Contains call
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}

	for _, block := range subnets {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}
