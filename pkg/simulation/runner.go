// Package simulation runs fault injection and usability analysis over every routing
// multiplexer of a graph.
package simulation

import (
	"context"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-routesim/pkg/defects"
	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/logging"
	"github.com/dd0wney/cluso-routesim/pkg/memcell"
	"github.com/dd0wney/cluso-routesim/pkg/metrics"
	"github.com/dd0wney/cluso-routesim/pkg/mux"
	"github.com/dd0wney/cluso-routesim/pkg/parallel"
	"github.com/dd0wney/cluso-routesim/pkg/rrgraph"
)

// Settings are the inputs that determine a run's outcome
type Settings struct {
	Table  fault.RateTable
	First  memcell.Model
	Second memcell.Model
	Seed   uint64
	// Workers does not affect results; every multiplexer draws from its own stream
	Workers int
}

// Runner analyses multiplexers in parallel
type Runner struct {
	settings Settings
	runID    string
	logger   logging.Logger
	metrics  *metrics.Registry
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger; the default discards output
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithMetrics records every analysed multiplexer into reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(r *Runner) {
		r.metrics = reg
	}
}

// WithRunID sets the identifier attached to log lines; a random one is used otherwise
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// NewRunner validates the settings and creates a runner
func NewRunner(s Settings, opts ...Option) (*Runner, error) {
	for _, m := range []memcell.Model{s.First, s.Second} {
		if !m.Valid() {
			return nil, fault.NewError("simulation.NewRunner").
				Context("unknown memory cell model %d", int(m)).
				Cause(fault.ErrConfiguration).
				Build()
		}
	}
	if s.Workers > parallel.MaxWorkers {
		return nil, fault.NewError("simulation.NewRunner").
			Context("%d workers", s.Workers).
			Cause(fault.ErrConfiguration).
			Build()
	}

	r := &Runner{
		settings: s,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.logger = r.logger.With(logging.RunID(r.runID), logging.Component("simulation"))
	return r, nil
}

// RunID returns the run identifier
func (r *Runner) RunID() string {
	return r.runID
}

// Settings returns the run settings
func (r *Runner) Settings() Settings {
	return r.settings
}

// Result is the outcome of one run. Muxes keeps the order of the input groups.
type Result struct {
	Muxes     []*mux.Multiplexer
	Deletions []rrgraph.Deletion
	Totals    Totals
}

// Run builds and analyses one multiplexer per group. The first failing group aborts the
// run; cancelling ctx stops work that has not started yet.
func (r *Runner) Run(ctx context.Context, groups [][]rrgraph.Edge) (*Result, error) {
	timer := logging.StartTimer(r.logger, "simulation finished",
		logging.Count(len(groups)),
		logging.Seed(r.settings.Seed),
		logging.Workers(r.settings.Workers),
	)

	muxes := make([]*mux.Multiplexer, len(groups))
	collector := defects.NewCollector()

	err := parallel.ForEach(ctx, r.settings.Workers, len(groups), func(_ context.Context, i int) error {
		m, err := r.analyse(i, groups[i])
		if err != nil {
			return err
		}
		muxes[i] = m
		collector.Add(m.DefectiveEdges()...)
		return nil
	})
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	res := &Result{
		Muxes:     muxes,
		Deletions: collector.Sorted(),
	}
	for _, m := range muxes {
		res.Totals.Add(m.Stats())
	}

	timer.End(
		logging.Int("defective_edges", res.Totals.DefectiveEdges),
		logging.Int("global_failures", res.Totals.GlobalFailures),
	)
	return res, nil
}

// analyse handles one group. Its generator stream is the group's ordinal, so the
// faults drawn never depend on scheduling.
func (r *Runner) analyse(ordinal int, edges []rrgraph.Edge) (*mux.Multiplexer, error) {
	gen := fault.NewGenerator(r.settings.Table, r.settings.Seed, uint64(ordinal))
	cells := memcell.NewFactory(r.settings.First, r.settings.Second, gen)

	m, err := mux.New(edges, cells)
	if err != nil {
		return nil, fault.NewError("simulation.Run").
			Context("multiplexer %d", ordinal).
			Cause(err).
			Build()
	}

	stats := m.Stats()
	if r.metrics != nil {
		r.metrics.RecordMux(stats)
	}
	if r.logger.GetLevel() <= logging.DebugLevel {
		r.logger.Debug("multiplexer analysed",
			logging.Sink(stats.Sink),
			logging.SwitchID(stats.SwitchID),
			logging.MuxSize(stats.Inputs),
			logging.BlockSize(stats.BlockSize),
			logging.Int("defective", stats.DefectiveEdges),
			logging.String("failure", stats.Analysis.Reason.String()),
		)
	}
	return m, nil
}
