package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"

	"github.com/JaedanC/MultiPing/pkg/probe"
	"github.com/JaedanC/MultiPing/pkg/report"
	"github.com/JaedanC/MultiPing/pkg/resolve"
	"github.com/JaedanC/MultiPing/pkg/subnet"
	"github.com/JaedanC/MultiPing/pkg/sweep"
)

// Runner contains the internal logic of the program
type Runner struct {
	options *Options

	// confirmation input, swapped in tests
	stdin *os.File
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	return &Runner{options: options, stdin: os.Stdin}, nil
}

// Run parses the subnet, confirms with the user and executes the sweep.
func (r *Runner) Run(ctx context.Context) error {
	sn, err := subnet.Parse(r.options.Subnet)
	if err != nil {
		return err
	}

	hosts, err := sn.Hosts()
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not enumerate %s", sn)
	}
	if len(hosts) == 0 {
		gologger.Info().Msgf("%s has no usable hosts, nothing to sweep", sn)
		return nil
	}

	for _, line := range sweepPlan(sn, hosts, r.options) {
		gologger.Print().Msg(line)
	}

	if !r.options.Confirm {
		ok, err := r.confirm(ctx)
		if err != nil {
			return err
		}
		if !ok {
			gologger.Info().Msg("Sweep cancelled")
			return nil
		}
	}

	prober := probe.NewProber(r.options.Attempts, time.Duration(r.options.TimeoutSec)*time.Second, r.options.Privileged)
	resolver := resolve.NewResolver(r.options.Nameserver, resolve.DefaultTimeout)
	scheduler, err := sweep.NewScheduler(sweep.Config{Workers: r.options.Threads}, prober, resolver)
	if err != nil {
		return err
	}

	gologger.Verbose().Msgf("Sweeping %d hosts with %d workers", len(hosts), min(r.options.Threads, len(hosts)))

	result, err := scheduler.Sweep(ctx, hosts)
	if errors.Is(err, sweep.ErrCancelled) {
		gologger.Info().Msg("Killing workers, discarding partial results")
		return nil
	}
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("sweep of %s failed", sn)
	}

	if err := report.Render(os.Stdout, result); err != nil {
		return err
	}

	if r.options.CSVPath != "" {
		gologger.Info().Msgf("Writing %s", r.options.CSVPath)
		if err := report.WriteCSV(r.options.CSVPath, result); err != nil {
			// Permission or path trouble must not lose the results.
			gologger.Warning().Msgf("Cannot write to %s at the moment (%s). Using stdout.", r.options.CSVPath, err)
			return report.Render(os.Stdout, result)
		}
	}

	return nil
}

// Close the runner instance
func (r *Runner) Close() {}

// confirm blocks until the user presses enter or ctx is cancelled.
func (r *Runner) confirm(ctx context.Context) (bool, error) {
	gologger.Print().Msg("Press enter to continue (ctrl+c to cancel)")

	entered := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r.stdin).ReadString('\n')
		entered <- err
	}()

	select {
	case <-ctx.Done():
		return false, nil
	case err := <-entered:
		if err != nil {
			return false, nil
		}
		return true, nil
	}
}

// sweepPlan builds the pre-flight summary shown before confirmation.
func sweepPlan(sn *subnet.Subnet, hosts []net.IP, options *Options) []string {
	lines := []string{
		fmt.Sprintf("Pinging:   %s", au.Cyan(sn.String())),
		"",
		fmt.Sprintf("Mask:      %s", sn.Netmask()),
		fmt.Sprintf("Cidr:      %d", sn.PrefixLen()),
		fmt.Sprintf("Network:   %s", sn.Network()),
		fmt.Sprintf("Broadcast: %s", sn.Broadcast()),
		"",
		fmt.Sprintf("Pinging %d time%s for %d IP%s in range using %d thread%s:",
			options.Attempts, plural(options.Attempts),
			len(hosts), plural(len(hosts)),
			min(options.Threads, len(hosts)), plural(options.Threads)),
	}
	if len(hosts) > 1 {
		lines = append(lines, fmt.Sprintf("%s -> %s", hosts[0], hosts[len(hosts)-1]))
	}
	if options.CSVPath != "" {
		lines = append(lines, fmt.Sprintf("Once done will save to %s", options.CSVPath))
	}
	return lines
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
