package subnet

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/projectdiscovery/mapcidr"
)

var (
	// ErrInvalidAddress is returned when the address part of a subnet
	// expression is not a well-formed dotted-quad IPv4 address.
	ErrInvalidAddress = errors.New("invalid IPv4 address")

	// ErrInvalidSubnet is returned when the prefix length is missing,
	// not numeric, or outside the accepted range.
	ErrInvalidSubnet = errors.New("invalid subnet")
)

const (
	// MinPrefixLen bounds the worst-case host count: anything broader
	// than a /16 (65534 hosts) is refused before enumeration.
	MinPrefixLen = 16
	MaxPrefixLen = 32
)

// Subnet is a validated IPv4 network plus prefix length. Host bits in
// the input address are masked off during parsing, so "10.0.0.5/24"
// and "10.0.0.0/24" describe the same subnet.
type Subnet struct {
	ipnet  *net.IPNet
	prefix int
}

// Parse validates an "a.b.c.d/prefix" expression and returns the subnet.
func Parse(expr string) (*Subnet, error) {
	addrPart, prefixPart, found := strings.Cut(expr, "/")
	if !found {
		return nil, fmt.Errorf("%w: missing /prefix in %q", ErrInvalidSubnet, expr)
	}

	octets := strings.Split(addrPart, ".")
	if len(octets) != 4 {
		return nil, fmt.Errorf("%w: %q must have exactly four octets", ErrInvalidAddress, addrPart)
	}
	for _, octet := range octets {
		n, err := strconv.Atoi(octet)
		if err != nil || n < 0 || n > 255 {
			return nil, fmt.Errorf("%w: bad octet %q in %q", ErrInvalidAddress, octet, addrPart)
		}
	}

	prefix, err := strconv.Atoi(prefixPart)
	if err != nil {
		return nil, fmt.Errorf("%w: prefix %q is not a number", ErrInvalidSubnet, prefixPart)
	}
	if prefix < MinPrefixLen || prefix > MaxPrefixLen {
		return nil, fmt.Errorf("%w: prefix /%d outside [%d,%d]", ErrInvalidSubnet, prefix, MinPrefixLen, MaxPrefixLen)
	}

	ip := net.ParseIP(addrPart)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addrPart)
	}

	mask := net.CIDRMask(prefix, 32)
	return &Subnet{
		ipnet:  &net.IPNet{IP: ip.To4().Mask(mask), Mask: mask},
		prefix: prefix,
	}, nil
}

// Network returns the network address of the subnet.
func (s *Subnet) Network() net.IP {
	return s.ipnet.IP
}

// Broadcast returns the broadcast address of the subnet.
func (s *Subnet) Broadcast() net.IP {
	broadcast := make(net.IP, len(s.ipnet.IP))
	copy(broadcast, s.ipnet.IP)
	for i := range broadcast {
		broadcast[i] |= ^s.ipnet.Mask[i]
	}
	return broadcast
}

// Netmask returns the subnet mask in dotted-quad form.
func (s *Subnet) Netmask() net.IP {
	return net.IP(s.ipnet.Mask)
}

// PrefixLen returns the prefix length.
func (s *Subnet) PrefixLen() int {
	return s.prefix
}

// String returns the canonical CIDR form, e.g. "10.0.0.0/24".
func (s *Subnet) String() string {
	return fmt.Sprintf("%s/%d", s.ipnet.IP, s.prefix)
}

// Hosts expands the subnet to its usable host addresses in ascending
// order, excluding the network and broadcast addresses. A /31 or /32
// therefore yields no hosts.
func (s *Subnet) Hosts() ([]net.IP, error) {
	ips, err := mapcidr.IPAddresses(s.String())
	if err != nil {
		return nil, fmt.Errorf("failed to expand CIDR %s: %w", s.String(), err)
	}

	hosts := make([]net.IP, 0, len(ips))
	for _, ipStr := range ips {
		ip := net.ParseIP(ipStr)
		if ip == nil {
			continue
		}
		if ip4 := ip.To4(); ip4 != nil {
			ip = ip4
		}
		if ip.Equal(s.Network()) || ip.Equal(s.Broadcast()) {
			continue
		}
		hosts = append(hosts, ip)
	}
	return hosts, nil
}
