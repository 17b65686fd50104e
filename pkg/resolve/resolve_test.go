package resolve

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// startPTRServer runs a local DNS server answering PTR queries from the
// given record map (reverse name -> PTR targets) and returns its address.
func startPTRServer(t *testing.T, records map[string][]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		q := req.Question[0]
		if q.Qtype == dns.TypePTR {
			for _, name := range records[q.Name] {
				m.Answer = append(m.Answer, &dns.PTR{
					Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 60},
					Ptr: name,
				})
			}
		}
		if len(m.Answer) == 0 {
			m.Rcode = dns.RcodeNameError
		}
		_ = w.WriteMsg(m)
	})

	srv := &dns.Server{PacketConn: pc, Handler: mux}
	go func() {
		_ = srv.ActivateAndServe()
	}()
	t.Cleanup(func() {
		_ = srv.Shutdown()
	})

	return pc.LocalAddr().String()
}

func TestResolveReturnsNamesInResponseOrder(t *testing.T) {
	addr := startPTRServer(t, map[string][]string{
		"1.0.0.10.in-addr.arpa.": {"gateway.example.com.", "router.example.com."},
	})

	r := NewResolver(addr, time.Second)
	names := r.Resolve(context.Background(), net.ParseIP("10.0.0.1"))

	if len(names) != 2 {
		t.Fatalf("got %d names, want 2: %v", len(names), names)
	}
	if names[0] != "gateway.example.com." || names[1] != "router.example.com." {
		t.Errorf("names = %v, want response order preserved", names)
	}
}

func TestResolveNXDomainYieldsEmpty(t *testing.T) {
	addr := startPTRServer(t, nil)

	r := NewResolver(addr, time.Second)
	names := r.Resolve(context.Background(), net.ParseIP("10.0.0.2"))

	if len(names) != 0 {
		t.Errorf("got %v, want no names for NXDOMAIN", names)
	}
}

func TestResolveUnreachableServerYieldsEmpty(t *testing.T) {
	// Grab a free port and close it again so nothing answers there.
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := pc.LocalAddr().String()
	_ = pc.Close()

	r := NewResolver(addr, 250*time.Millisecond)
	names := r.Resolve(context.Background(), net.ParseIP("10.0.0.3"))

	if len(names) != 0 {
		t.Errorf("got %v, want no names when the server is unreachable", names)
	}
}

func TestNewResolverAppendsDefaultPort(t *testing.T) {
	tests := []struct {
		name       string
		nameserver string
		want       string
	}{
		{"Bare host gets port 53", "10.0.0.53", "10.0.0.53:53"},
		{"Explicit port kept", "10.0.0.53:5353", "10.0.0.53:5353"},
		{"Empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.nameserver, time.Second)
			if r.nameserver != tt.want {
				t.Errorf("nameserver = %q, want %q", r.nameserver, tt.want)
			}
		})
	}
}
