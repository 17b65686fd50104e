// Package sweep runs probe-and-resolve tasks for a host list across a
// bounded worker pool.
//
// The scheduler preserves input order in its output regardless of task
// completion order, isolates per-task failures, and abandons the whole
// sweep promptly when its context is cancelled: partial results are
// discarded, never surfaced.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"net"

	mapsutil "github.com/projectdiscovery/utils/maps"
	syncutil "github.com/projectdiscovery/utils/sync"

	"github.com/JaedanC/MultiPing/pkg/probe"
)

const (
	// MaxWorkers hard-caps the pool size so a hostile thread count
	// cannot exhaust file descriptors on a /16 sweep.
	MaxWorkers = 1024

	// DefaultWorkers is the pool size used when none is configured.
	DefaultWorkers = 256
)

var (
	// ErrInvalidConfig is returned for non-positive worker counts.
	ErrInvalidConfig = errors.New("invalid sweep configuration")

	// ErrCancelled is returned when the sweep is aborted before or
	// during dispatch. It signals a clean abort, not a failure.
	ErrCancelled = errors.New("sweep cancelled")
)

// Prober measures round trips to a single host.
type Prober interface {
	Probe(ctx context.Context, host net.IP) probe.Outcome
}

// Resolver performs one reverse lookup for a single host.
type Resolver interface {
	Resolve(ctx context.Context, host net.IP) []string
}

// Config tunes the scheduler.
type Config struct {
	// Workers is the requested pool size. It is clamped to MaxWorkers
	// and further to the host count at sweep time.
	Workers int
}

// Record is the immutable per-host result committed once by its worker.
type Record struct {
	Host   net.IP
	Probes probe.Outcome
	Names  []string
}

// Result holds one Record per swept host, index-aligned with the input
// host sequence.
type Result []Record

// Scheduler owns the worker pool for a sweep.
type Scheduler struct {
	workers  int
	prober   Prober
	resolver Resolver
}

// NewScheduler validates cfg and returns a scheduler using the given
// prober and resolver.
func NewScheduler(cfg Config, prober Prober, resolver Resolver) (*Scheduler, error) {
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("%w: workers must be greater than 0, got %d", ErrInvalidConfig, cfg.Workers)
	}
	workers := cfg.Workers
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if prober == nil || resolver == nil {
		return nil, fmt.Errorf("%w: prober and resolver are required", ErrInvalidConfig)
	}
	return &Scheduler{
		workers:  workers,
		prober:   prober,
		resolver: resolver,
	}, nil
}

// Sweep dispatches one probe-and-resolve task per host and blocks until
// every task has committed its record or ctx is cancelled.
//
// Records are committed into a concurrent map keyed by input index and
// written at most once per index, so the returned Result is in input
// order no matter which worker finishes first. On cancellation the sweep
// returns ErrCancelled and discards everything collected so far.
func (s *Scheduler) Sweep(ctx context.Context, hosts []net.IP) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrCancelled
	}
	if len(hosts) == 0 {
		return Result{}, nil
	}

	awg, err := syncutil.New(syncutil.WithSize(min(s.workers, len(hosts))))
	if err != nil {
		return nil, fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	slots := mapsutil.NewSyncLockMap[int, *Record]()

	for i, host := range hosts {
		select {
		case <-ctx.Done():
			// Kill and abort: in-flight workers die with the context,
			// anything already collected is dropped.
			return nil, ErrCancelled
		default:
		}

		awg.Add()
		go func(idx int, target net.IP) {
			defer awg.Done()

			rec := &Record{Host: target}
			rec.Probes = s.prober.Probe(ctx, target)
			if ctx.Err() == nil {
				rec.Names = s.resolver.Resolve(ctx, target)
			}
			_ = slots.Set(idx, rec)
		}(i, host)
	}

	done := make(chan struct{})
	go func() {
		awg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ErrCancelled
	case <-done:
	}

	result := make(Result, len(hosts))
	for i := range hosts {
		rec, ok := slots.Get(i)
		if !ok || rec == nil {
			result[i] = Record{Host: hosts[i]}
			continue
		}
		result[i] = *rec
	}
	return result, nil
}
