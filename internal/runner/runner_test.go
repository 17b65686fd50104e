package runner

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaedanC/MultiPing/pkg/subnet"
)

func TestSweepPlan(t *testing.T) {
	sn, err := subnet.Parse("10.0.0.0/30")
	require.NoError(t, err)
	hosts, err := sn.Hosts()
	require.NoError(t, err)

	options := &Options{Attempts: 4, Threads: 256, CSVPath: "out.csv"}
	lines := sweepPlan(sn, hosts, options)

	joined := ""
	for _, line := range lines {
		joined += line + "\n"
	}

	assert.Contains(t, joined, "10.0.0.0/30")
	assert.Contains(t, joined, "Mask:      255.255.255.252")
	assert.Contains(t, joined, "Cidr:      30")
	assert.Contains(t, joined, "Network:   10.0.0.0")
	assert.Contains(t, joined, "Broadcast: 10.0.0.3")
	// Thread count shown is clamped to the host count.
	assert.Contains(t, joined, "Pinging 4 times for 2 IPs in range using 2 threads:")
	assert.Contains(t, joined, "10.0.0.1 -> 10.0.0.2")
	assert.Contains(t, joined, "Once done will save to out.csv")
}

func TestSweepPlanSingleHostNoRange(t *testing.T) {
	sn, err := subnet.Parse("10.0.0.0/30")
	require.NoError(t, err)
	hosts, err := sn.Hosts()
	require.NoError(t, err)

	lines := sweepPlan(sn, hosts[:1], &Options{Attempts: 1, Threads: 1})
	for _, line := range lines {
		assert.NotContains(t, line, "->", "no first -> last line for a single host")
	}
}

func TestConfirmEnterProceeds(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	runner := &Runner{options: &Options{}, stdin: r}

	go func() {
		_, _ = w.WriteString("\n")
		_ = w.Close()
	}()

	ok, err := runner.confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmCancelledContextAborts(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	runner := &Runner{options: &Options{}, stdin: r}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	ok, err := runner.confirm(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmEOFAborts(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	_ = w.Close()

	runner := &Runner{options: &Options{}, stdin: r}

	ok, err := runner.confirm(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunRejectsBadSubnet(t *testing.T) {
	tests := []struct {
		name   string
		subnet string
	}{
		{"Too broad", "10.0.0.0/15"},
		{"Bad address", "10.0.0.999/24"},
		{"Missing prefix", "10.0.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, err := NewRunner(&Options{Subnet: tt.subnet, Threads: 4, Attempts: 1, TimeoutSec: 1, Confirm: true})
			require.NoError(t, err)
			err = runner.Run(context.Background())
			require.Error(t, err)
		})
	}
}
