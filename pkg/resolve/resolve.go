// Package resolve performs reverse-DNS (PTR) lookups for single hosts.
//
// Resolution failure of any kind yields an empty name list rather than an
// error: a host without a PTR record is an ordinary outcome of a sweep,
// not a fault.
package resolve

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DefaultTimeout bounds a single reverse lookup.
const DefaultTimeout = 3 * time.Second

const resolvConfPath = "/etc/resolv.conf"

// Resolver issues one PTR query per host against a configured nameserver
// or the system default.
type Resolver struct {
	client     *dns.Client
	nameserver string // host:port, empty means system default
}

// NewResolver returns a resolver using the given nameserver. An empty
// nameserver selects the first system-configured server; a nameserver
// without a port gets the standard port 53 appended.
func NewResolver(nameserver string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if nameserver != "" && !strings.Contains(nameserver, ":") {
		nameserver = net.JoinHostPort(nameserver, "53")
	}
	return &Resolver{
		client:     &dns.Client{Timeout: timeout},
		nameserver: nameserver,
	}
}

// Resolve returns the PTR names for host in response order. Any failure,
// NXDOMAIN included, returns an empty slice.
func (r *Resolver) Resolve(ctx context.Context, host net.IP) []string {
	rname, err := dns.ReverseAddr(host.String())
	if err != nil {
		return nil
	}

	server := r.nameserver
	if server == "" {
		server = systemNameserver()
	}
	if server == "" {
		// No resolv.conf to read, let the OS resolver handle it.
		names, err := net.DefaultResolver.LookupAddr(ctx, host.String())
		if err != nil {
			return nil
		}
		return names
	}

	msg := new(dns.Msg)
	msg.SetQuestion(rname, dns.TypePTR)

	resp, _, err := r.client.ExchangeContext(ctx, msg, server)
	if err != nil || resp == nil {
		return nil
	}

	var names []string
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}
	return names
}

func systemNameserver() string {
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		return ""
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}
