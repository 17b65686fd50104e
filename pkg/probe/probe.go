// Package probe measures ICMP echo round-trip latency to single hosts.
//
// A Prober performs a fixed number of sequential echo attempts per host.
// Each attempt either reports a latency rounded to whole milliseconds or
// a no-reply sentinel; an attempt failure never aborts the remaining
// attempts. Transport is delegated to pro-bing, so no raw packets are
// constructed here.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

const (
	// DefaultAttempts matches the classic four-echo ping budget.
	DefaultAttempts = 4

	// DefaultTimeout bounds a single echo attempt.
	DefaultTimeout = 2 * time.Second
)

// NoReply is the sentinel rendered for an attempt that got no echo back.
const NoReply = "_"

var errNoReply = errors.New("no echo reply")

// Attempt is the result of a single echo round trip.
type Attempt struct {
	RTT     time.Duration
	Replied bool
}

func (a Attempt) String() string {
	if !a.Replied {
		return NoReply
	}
	return fmt.Sprintf("%dms", a.RTT.Round(time.Millisecond).Milliseconds())
}

// Outcome is the ordered attempt results for one host. Its length always
// equals the configured attempt count.
type Outcome []Attempt

// String joins the attempts for display, e.g. "12ms, _, 9ms, 11ms".
func (o Outcome) String() string {
	parts := make([]string, 0, len(o))
	for _, a := range o {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}

// Replies returns the number of attempts that got an echo back.
func (o Outcome) Replies() int {
	n := 0
	for _, a := range o {
		if a.Replied {
			n++
		}
	}
	return n
}

// Prober sends a bounded number of sequential echo probes to one host at
// a time. Attempts are never parallel within a host.
type Prober struct {
	attempts   int
	timeout    time.Duration
	privileged bool

	pingOnce func(ctx context.Context, host net.IP) (time.Duration, error)
}

// NewProber returns a prober that performs `attempts` sequential echoes
// per host with the given per-attempt timeout. Privileged mode uses raw
// ICMP sockets instead of unprivileged UDP echoes.
func NewProber(attempts int, timeout time.Duration, privileged bool) *Prober {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Prober{
		attempts:   attempts,
		timeout:    timeout,
		privileged: privileged,
	}
	p.pingOnce = p.icmpPing
	return p
}

// Probe runs the configured number of attempts against host. The outcome
// always has one entry per attempt; failures degrade to the no-reply
// sentinel. When ctx is cancelled the remaining attempts are marked as
// no-reply without touching the network.
func (p *Prober) Probe(ctx context.Context, host net.IP) Outcome {
	out := make(Outcome, 0, p.attempts)
	for i := 0; i < p.attempts; i++ {
		if ctx.Err() != nil {
			out = append(out, Attempt{})
			continue
		}
		rtt, err := p.pingOnce(ctx, host)
		if err != nil {
			out = append(out, Attempt{})
			continue
		}
		out = append(out, Attempt{RTT: rtt, Replied: true})
	}
	return out
}

func (p *Prober) icmpPing(ctx context.Context, host net.IP) (time.Duration, error) {
	pinger, err := probing.NewPinger(host.String())
	if err != nil {
		return 0, err
	}
	pinger.Count = 1
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(p.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return 0, err
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, errNoReply
	}
	return stats.AvgRtt, nil
}
