// Package config loads simulation settings from YAML and validates them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/logging"
	"github.com/dd0wney/cluso-routesim/pkg/memcell"
	"github.com/dd0wney/cluso-routesim/pkg/validation"
)

// MaxWorkers bounds the configured worker count
const MaxWorkers = 4096

// Rates holds the per-kind fault percentages
type Rates struct {
	SA0 float64 `yaml:"sa0" validate:"gte=0,lte=100"`
	SA1 float64 `yaml:"sa1" validate:"gte=0,lte=100"`
	UD  float64 `yaml:"ud" validate:"gte=0,lte=100"`
}

// Stages names the memory cell model used by each multiplexer stage
type Stages struct {
	First  string `yaml:"first" validate:"required,cellmodel"`
	Second string `yaml:"second" validate:"required,cellmodel"`
}

// Config is the complete set of run settings
type Config struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Rates       Rates  `yaml:"rates"`
	Stages      Stages `yaml:"stages"`
	Seed        uint64 `yaml:"seed"`
	Workers     int    `yaml:"workers"`
	MetricsFile string `yaml:"metrics_file"`
	Verbose     bool   `yaml:"verbose"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Default returns the settings used when neither a file nor flags say otherwise
func Default() *Config {
	return &Config{
		Stages: Stages{
			First:  memcell.SingleResistor.String(),
			Second: memcell.SingleResistor.String(),
		},
		LogLevel:  "info",
		LogFormat: string(logging.FormatJSON),
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.NewError("config.Load").
			Context("path %s", path).
			Cause(fmt.Errorf("%w: %w", fault.ErrConfiguration, err)).
			Build()
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fault.NewError("config.Load").Context("path %s", path).Cause(err).Build()
	}
	return cfg, nil
}

// Parse decodes YAML settings over the defaults
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", fault.ErrConfiguration, err)
	}
	return cfg, nil
}

// ApplyDefaults fills the settings that depend on the environment: the worker count,
// the seed and the output path. It returns the receiver for chaining.
func (c *Config) ApplyDefaults() *Config {
	c.Workers = validation.DefaultOr(c.Workers, runtime.GOMAXPROCS(0))
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	// Without an output the input graph is rewritten in place
	c.Output = validation.DefaultOr(c.Output, c.Input)
	return c
}

// Validate checks field ranges and cross-field rules. Every failure is reported.
func (c *Config) Validate() error {
	rates := []struct {
		field string
		value float64
	}{
		{"rates.sa0", c.Rates.SA0},
		{"rates.sa1", c.Rates.SA1},
		{"rates.ud", c.Rates.UD},
	}

	cv := validation.NewConfigValidator("Config").
		Required("input", c.Input)
	for _, r := range rates {
		cv.Finite(r.field, r.value)
	}
	cv.PercentSum("rates", c.Rates.SA0, c.Rates.SA1, c.Rates.UD).
		NonNegative("workers", c.Workers).
		When(c.Workers >= 0, func(cv *validation.ConfigValidator) {
			cv.RangeInt("workers", c.Workers, 0, MaxWorkers)
		}).
		When(c.LogLevel != "", func(cv *validation.ConfigValidator) {
			cv.OneOf("log_level", strings.ToLower(c.LogLevel), logging.LevelNames())
		}).
		When(c.LogFormat != "", func(cv *validation.ConfigValidator) {
			cv.Custom("log_format", func() error {
				_, err := logging.ParseFormat(c.LogFormat)
				return err
			})
		})

	if err := errors.Join(validation.Struct(c), cv.Validate()); err != nil {
		return c.wrap(err)
	}
	return nil
}

func (c *Config) wrap(err error) error {
	return fault.NewError("config.Validate").
		Cause(fmt.Errorf("%w: %w", fault.ErrConfiguration, err)).
		Build()
}

// RateTable builds the fault rate table from the configured percentages
func (c *Config) RateTable() (fault.RateTable, error) {
	return fault.NewRateTable(c.Rates.SA0, c.Rates.SA1, c.Rates.UD)
}

// Models resolves the configured stage models
func (c *Config) Models() (first, second memcell.Model, err error) {
	if first, err = memcell.ParseModel(c.Stages.First); err != nil {
		return 0, 0, err
	}
	if second, err = memcell.ParseModel(c.Stages.Second); err != nil {
		return 0, 0, err
	}
	return first, second, nil
}

// Level returns the configured log level, raised to debug when verbose
func (c *Config) Level() logging.Level {
	if c.Verbose {
		return logging.DebugLevel
	}
	return logging.ParseLevel(c.LogLevel)
}

// Format returns the configured log format, falling back to JSON
func (c *Config) Format() logging.Format {
	f, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return logging.FormatJSON
	}
	return f
}
