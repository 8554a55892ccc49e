package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-routesim/pkg/config"
	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/memcell"
	"github.com/dd0wney/cluso-routesim/pkg/validation"
)

// options holds the raw command line before it is merged into a config
type options struct {
	configFile  string
	input       string
	output      string
	sa0         float64
	sa1         float64
	ud          float64
	seed        uint64
	workers     int
	first       string
	second      string
	metricsFile string
	verbose     bool
	logLevel    string
	logFormat   string

	set map[string]bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("routesim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&opts.input, "input", "", "Routing-resource graph: local path, .sz for snappy, or s3://bucket/key")
	fs.StringVar(&opts.output, "output", "", "Output graph path (default: rewrite the input)")
	fs.Float64Var(&opts.sa0, "sa0", 0, "Stuck-at-0 resistor fault rate in percent")
	fs.Float64Var(&opts.sa1, "sa1", 0, "Stuck-at-1 resistor fault rate in percent")
	fs.Float64Var(&opts.ud, "ud", 0, "Undefined resistor fault rate in percent")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed (default: derived from the clock)")
	fs.IntVar(&opts.workers, "workers", 0, "Parallel workers (default: GOMAXPROCS)")
	fs.StringVar(&opts.first, "first-stage", "", fmt.Sprintf("First-stage memory cell model %v", memcell.ModelNames()))
	fs.StringVar(&opts.second, "second-stage", "", fmt.Sprintf("Second-stage memory cell model %v", memcell.ModelNames()))
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	fs.BoolVar(&opts.verbose, "verbose", false, "Print every multiplexer and log at debug level")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "", "Log format: json or console")
	return fs
}

// parseArgs parses flags and the positional form <graph> <sa0> <sa1> <ud>
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := newFlagSet(opts, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	switch fs.NArg() {
	case 0:
	case 4:
		if opts.set["input"] {
			return nil, usageError("positional arguments cannot be combined with -input")
		}
		opts.input = fs.Arg(0)
		opts.set["input"] = true
		for i, dst := range []*float64{&opts.sa0, &opts.sa1, &opts.ud} {
			v, err := strconv.ParseFloat(fs.Arg(i+1), 64)
			if err != nil {
				return nil, usageError("fault rate %q is not a number", fs.Arg(i+1))
			}
			*dst = v
		}
		opts.set["sa0"], opts.set["sa1"], opts.set["ud"] = true, true, true
	default:
		return nil, usageError("expected <graph> <sa0> <sa1> <ud>, got %d positional arguments", fs.NArg())
	}
	return opts, nil
}

// buildConfig loads the config file when given, then applies every flag that was set
func buildConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrides := map[string]func(){
		"input":        func() { cfg.Input = opts.input },
		"output":       func() { cfg.Output = opts.output },
		"sa0":          func() { cfg.Rates.SA0 = opts.sa0 },
		"sa1":          func() { cfg.Rates.SA1 = opts.sa1 },
		"ud":           func() { cfg.Rates.UD = opts.ud },
		"seed":         func() { cfg.Seed = opts.seed },
		"workers":      func() { cfg.Workers = opts.workers },
		"first-stage":  func() { cfg.Stages.First = opts.first },
		"second-stage": func() { cfg.Stages.Second = opts.second },
		"metrics-file": func() { cfg.MetricsFile = opts.metricsFile },
		"verbose":      func() { cfg.Verbose = opts.verbose },
		"log-level":    func() { cfg.LogLevel = opts.logLevel },
		"log-format":   func() { cfg.LogFormat = opts.logFormat },
	}
	for name, apply := range overrides {
		if opts.set[name] {
			apply()
		}
	}

	cfg.ApplyDefaults()
	if err := validation.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func usageError(format string, args ...any) error {
	return fault.NewError("routesim").
		Context(format, args...).
		Cause(fault.ErrConfiguration).
		Build()
}
