package config

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/logging"
	"github.com/dd0wney/cluso-routesim/pkg/memcell"
)

const sampleYAML = `
input: arch/rr_graph.xml
output: out/rr_graph.xml.sz
rates:
  sa0: 1.5
  sa1: 0.5
  ud: 2
stages:
  first: 2t2r
  second: chained
seed: 42
workers: 8
metrics_file: out/routesim.prom
log_format: console
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "arch/rr_graph.xml", cfg.Input)
	assert.Equal(t, "out/rr_graph.xml.sz", cfg.Output)
	assert.Equal(t, Rates{SA0: 1.5, SA1: 0.5, UD: 2}, cfg.Rates)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "out/routesim.prom", cfg.MetricsFile)
	assert.Equal(t, logging.FormatConsole, cfg.Format())
	// log_level is not in the file, so the default survives
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())

	first, second, err := cfg.Models()
	require.NoError(t, err)
	assert.Equal(t, memcell.Complementary, first)
	assert.Equal(t, memcell.Chained, second)

	table, err := cfg.RateTable()
	require.NoError(t, err)
	t0, t1, t2 := table.Thresholds()
	assert.Equal(t, []float64{1.5, 2, 4}, []float64{t0, t1, t2})
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, fault.IsConfiguration(err))

	_, err = Load(writeConfig(t, "input: g.xml\nsurprise: true\n"))
	assert.True(t, fault.IsConfiguration(err), "unknown keys should be rejected")

	_, err = Load(writeConfig(t, "rates: [1, 2]\n"))
	assert.True(t, fault.IsConfiguration(err))
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyDefaults(t *testing.T) {
	cfg := Default()
	cfg.Input = "graph.xml"
	cfg.ApplyDefaults()

	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.NotZero(t, cfg.Seed)
	assert.Equal(t, "graph.xml", cfg.Output)

	cfg = Default()
	cfg.Input = "graph.xml"
	cfg.Output = "out.xml"
	cfg.Seed = 7
	cfg.Workers = 3
	cfg.ApplyDefaults()
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "out.xml", cfg.Output)

	cfg = Default()
	cfg.Input = "graph.xml"
	cfg.Workers = -1
	cfg.ApplyDefaults()
	assert.Equal(t, -1, cfg.Workers, "only an unset worker count is defaulted")
	assert.ErrorContains(t, cfg.Validate(), "must be non-negative")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Input = "graph.xml"
		cfg.Rates = Rates{SA0: 10, SA1: 10, UD: 10}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "all hundred percent in one kind", mutate: func(c *Config) { c.Rates = Rates{SA0: 100} }},
		{name: "missing input", mutate: func(c *Config) { c.Input = "" }, wantErr: "input"},
		{name: "negative rate", mutate: func(c *Config) { c.Rates.SA1 = -1 }, wantErr: "rates.sa1"},
		{name: "rate above hundred", mutate: func(c *Config) { c.Rates.UD = 120 }, wantErr: "rates.ud"},
		{name: "sum above hundred", mutate: func(c *Config) { c.Rates = Rates{SA0: 50, SA1: 40, UD: 20} }, wantErr: "exceeds 100"},
		{name: "unknown model", mutate: func(c *Config) { c.Stages.Second = "1t1r" }, wantErr: "stages.second"},
		{name: "missing model", mutate: func(c *Config) { c.Stages.First = "" }, wantErr: "stages.first"},
		{name: "too many workers", mutate: func(c *Config) { c.Workers = MaxWorkers + 1 }, wantErr: "workers"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log_format"},
		{name: "upper-case log level", mutate: func(c *Config) { c.LogLevel = "WARN" }},
		{name: "NaN rate", mutate: func(c *Config) { c.Rates.SA0 = math.NaN() }, wantErr: "rates.sa0: value NaN must be a finite number"},
		{name: "infinite rate", mutate: func(c *Config) { c.Rates.UD = math.Inf(1) }, wantErr: "must be a finite number"},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -2 }, wantErr: "must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, fault.IsConfiguration(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryFailure(t *testing.T) {
	cfg := Default()
	cfg.Stages.First = "9t9r"
	cfg.Rates = Rates{SA0: 60, SA1: 60}
	cfg.Workers = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, fault.IsConfiguration(err))
	for _, want := range []string{"stages.first", "Config.input", "exceeds 100", "Config.workers"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NotContains(t, err.Error(), "outside range", "a negative worker count is reported once")
}

func TestLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	assert.Equal(t, logging.WarnLevel, cfg.Level())
	cfg.Verbose = true
	assert.Equal(t, logging.DebugLevel, cfg.Level())
}
