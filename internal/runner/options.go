package runner

import (
	"os"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"

	"github.com/JaedanC/MultiPing/pkg/probe"
	"github.com/JaedanC/MultiPing/pkg/sweep"
)

var au = aurora.New(aurora.WithColors(true))

var (
	DefaultNameserver = envutil.GetEnvOrDefault("MPING_DNS_SERVER", "")
	DefaultThreads    = envutil.GetEnvOrDefault("MPING_THREADS", sweep.DefaultWorkers)
)

// Options contains the configuration options for a sweep run.
type Options struct {
	ConfigFile string `yaml:"-"`

	Subnet     string `yaml:"subnet"`
	CSVPath    string `yaml:"csv"`
	Threads    int    `yaml:"threads"`
	Attempts   int    `yaml:"attempts"`
	Nameserver string `yaml:"nameserver"`
	TimeoutSec int    `yaml:"timeout"`
	Privileged bool   `yaml:"privileged"`
	Confirm    bool   `yaml:"-"`

	Verbose bool `yaml:"-"`
	Silent  bool `yaml:"-"`
	NoColor bool `yaml:"-"`
	Version bool `yaml:"-"`
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`mping sweeps an IPv4 subnet with ICMP echo probes and reverse-DNS lookups`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.Subnet, "subnet", "s", "", "subnet to sweep in CIDR form, e.g. 192.168.1.0/24"),
	)

	flagSet.CreateGroup("probe", "Probe",
		flagSet.IntVarP(&options.Threads, "threads", "t", DefaultThreads, "number of concurrent workers"),
		flagSet.IntVarP(&options.Attempts, "count", "n", probe.DefaultAttempts, "number of echo probes per host"),
		flagSet.IntVar(&options.TimeoutSec, "timeout", int(probe.DefaultTimeout.Seconds()), "per-probe timeout in seconds"),
		flagSet.BoolVar(&options.Privileged, "privileged", false, "use raw ICMP sockets (requires root)"),
	)

	flagSet.CreateGroup("dns", "DNS",
		flagSet.StringVar(&options.Nameserver, "dns", DefaultNameserver, "nameserver for reverse lookups (default: system resolver)"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVar(&options.CSVPath, "csv", "", "also write results to a CSV file at the given path"),
		flagSet.BoolVarP(&options.Confirm, "yes", "y", false, "skip the confirmation prompt"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.StringVar(&options.ConfigFile, "config", "", "yaml configuration file"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if options.ConfigFile != "" {
		if err := options.loadConfigFrom(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("Could not load config file %s: %s\n", options.ConfigFile, err)
		}
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version)
		os.Exit(0)
	}

	options.validate()

	return options
}

// validate fails fast on bad configuration, before any network activity.
func (options *Options) validate() {
	if options.Subnet == "" {
		gologger.Fatal().Msg("No subnet provided, use -subnet a.b.c.d/prefix\n")
	}
	if options.Threads <= 0 {
		gologger.Fatal().Msgf("Threads must be greater than 0, got %d\n", options.Threads)
	}
	if options.Threads > sweep.MaxWorkers {
		gologger.Warning().Msgf("Capping threads to %d\n", sweep.MaxWorkers)
		options.Threads = sweep.MaxWorkers
	}
	if options.Attempts <= 0 {
		gologger.Fatal().Msgf("Probe count must be greater than 0, got %d\n", options.Attempts)
	}
	if options.TimeoutSec <= 0 {
		gologger.Fatal().Msgf("Timeout must be greater than 0, got %d\n", options.TimeoutSec)
	}
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func (options *Options) loadConfigFrom(location string) error {
	data, err := os.ReadFile(location)
	if err != nil {
		return err
	}
	return fileutil.Unmarshal(fileutil.YAML, data, options)
}
