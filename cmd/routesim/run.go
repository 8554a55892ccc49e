package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-routesim/pkg/config"
	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/logging"
	"github.com/dd0wney/cluso-routesim/pkg/metrics"
	"github.com/dd0wney/cluso-routesim/pkg/report"
	"github.com/dd0wney/cluso-routesim/pkg/rrgraph"
	"github.com/dd0wney/cluso-routesim/pkg/simulation"
)

// run executes one simulation and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "routesim: %v\n", err)
		return 1
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "routesim: %v\n", err)
		return 1
	}

	runID := uuid.NewString()
	logger := logging.New(stderr, cfg.Level(), cfg.Format()).
		With(logging.RunID(runID), logging.Component("routesim"))
	// Helpers without an injected logger, such as the worker pool, log here too
	defer logging.SetDefaultLogger(logging.SetDefaultLogger(logger))

	if err := simulate(ctx, cfg, runID, logger, stdout); err != nil {
		logger.Error("simulation failed", logging.Error(err))
		return 1
	}
	return 0
}

func simulate(ctx context.Context, cfg *config.Config, runID string, logger logging.Logger, stdout io.Writer) error {
	start := time.Now()

	if strings.HasPrefix(cfg.Output, "s3://") {
		return fault.NewError("routesim").
			Context("output %s: graphs can only be written locally", cfg.Output).
			Cause(fmt.Errorf("%w: %w", rrgraph.ErrUnsupportedSource, fault.ErrConfiguration)).
			Build()
	}

	table, err := cfg.RateTable()
	if err != nil {
		return err
	}
	first, second, err := cfg.Models()
	if err != nil {
		return err
	}
	reg := metrics.NewRegistry()

	logger.Info("starting simulation",
		logging.Path(cfg.Input),
		logging.String("rates", table.String()),
		logging.Stage(first.String()+"/"+second.String()),
		logging.Seed(cfg.Seed),
		logging.Workers(cfg.Workers),
	)

	// Read
	phase := time.Now()
	opener := &rrgraph.Opener{}
	doc, err := opener.Open(ctx, cfg.Input)
	if err != nil {
		return err
	}
	defer doc.Close()

	graph, err := rrgraph.Read(doc.NewReader())
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cfg.Input, err)
	}
	reg.RecordPhase(metrics.PhaseRead, time.Since(phase))

	// Group
	phase = time.Now()
	groups := rrgraph.GroupMuxes(graph)
	reg.RecordPhase(metrics.PhaseGroup, time.Since(phase))
	reg.RecordGraph(len(graph.Nodes), len(graph.Edges), len(groups), doc.Size())
	logger.Info("graph read",
		logging.Int("nodes", len(graph.Nodes)),
		logging.Int("edges", len(graph.Edges)),
		logging.Int("muxes", len(groups)),
	)

	// Simulate
	phase = time.Now()
	runner, err := simulation.NewRunner(simulation.Settings{
		Table:   table,
		First:   first,
		Second:  second,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	}, simulation.WithLogger(logger), simulation.WithMetrics(reg), simulation.WithRunID(runID))
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx, groups)
	if err != nil {
		return err
	}
	reg.RecordPhase(metrics.PhaseSimulate, time.Since(phase))

	// Rewrite
	phase = time.Now()
	removed, err := writeGraph(doc, cfg.Output, res.Deletions)
	if err != nil {
		return err
	}
	reg.RecordPhase(metrics.PhaseRewrite, time.Since(phase))
	reg.RecordDeleted(removed)
	logger.Info("graph written", logging.Path(cfg.Output), logging.Int("deleted", removed))

	err = report.New(stdout, report.WithDetail(cfg.Verbose)).Run(res, report.Summary{
		RunID:   runID,
		Seed:    cfg.Seed,
		Input:   cfg.Input,
		Output:  cfg.Output,
		Totals:  res.Totals,
		Deleted: removed,
		Elapsed: time.Since(start),
	})
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := reg.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}

// writeGraph streams doc into path without the deleted edges
func writeGraph(doc *rrgraph.Document, path string, dels []rrgraph.Deletion) (int, error) {
	out, err := rrgraph.Create(path)
	if err != nil {
		return 0, err
	}

	removed, err := rrgraph.Rewrite(doc.NewReader(), out, dels)
	if err != nil {
		out.Abort()
		return removed, fmt.Errorf("failed to rewrite graph: %w", err)
	}
	if removed != len(dels) {
		out.Abort()
		return removed, fault.NewError("routesim").
			Context("removed %d of %d defective edges", removed, len(dels)).
			Cause(fault.ErrInternalInvariant).
			Build()
	}
	if err := out.Close(); err != nil {
		return removed, err
	}
	return removed, nil
}
