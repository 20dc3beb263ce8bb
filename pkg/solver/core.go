// Package solver ties analysis to persistence: it analyses schematics,
// records the results in a store, and reuses stored results when asked to.
package solver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/praetorian-inc/schematic"
	"github.com/praetorian-inc/schematic/pkg/store"
	"github.com/praetorian-inc/schematic/pkg/types"
)

// Config configures a Core.
type Config struct {
	// Store receives every report. Required.
	Store store.Store
	// Workers is passed to the analyzer for row tokenization.
	Workers int
	// Incremental returns the stored report for schematics already in the
	// store instead of analysing them again.
	Incremental bool
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Core analyses schematics and records them in a store. It is safe for
// concurrent use when its store is.
type Core struct {
	analyzer    *schematic.Analyzer
	store       store.Store
	incremental bool
	logger      *zap.Logger
}

// NewCore creates a Core.
func NewCore(cfg Config) (*Core, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Core{
		analyzer: schematic.NewAnalyzer(
			schematic.WithWorkers(cfg.Workers),
			schematic.WithLogger(logger),
		),
		store:       cfg.Store,
		incremental: cfg.Incremental,
		logger:      logger,
	}, nil
}

// Logger returns the logger the core was configured with.
func (c *Core) Logger() *zap.Logger {
	return c.logger
}

// Solve analyses content read from prov and records the result.
func (c *Core) Solve(ctx context.Context, content []byte, prov types.Provenance) (*SolveResult, error) {
	id := types.ComputeSchematicID(content)
	result := &SolveResult{Source: prov.Path()}

	if c.incremental {
		r, err := c.store.GetReport(id)
		switch {
		case err == nil:
			if err := c.store.AddProvenance(id, prov); err != nil {
				return nil, fmt.Errorf("recording provenance: %w", err)
			}
			c.logger.Debug("reusing stored report", zap.String("schematic", id.Short()), zap.String("source", prov.Path()))
			result.Report = r
			result.Cached = true
			return result, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("looking up report: %w", err)
		}
	}

	r, err := c.analyzer.AnalyzeBytes(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("analysing %s: %w", prov.Path(), err)
	}

	if err := c.store.AddSchematic(id, int64(len(content)), r.Rows); err != nil {
		return nil, fmt.Errorf("recording schematic: %w", err)
	}
	if err := c.store.AddReport(r); err != nil {
		return nil, fmt.Errorf("recording report: %w", err)
	}
	if err := c.store.AddProvenance(id, prov); err != nil {
		return nil, fmt.Errorf("recording provenance: %w", err)
	}

	result.Report = r
	return result, nil
}

// SolveBatch solves every item. A failing item is reported in its result
// and counted in Failed; it does not stop the batch. An item whose report
// would overflow Totals also fails, but its report is correct on its own
// and stays in the store.
func (c *Core) SolveBatch(ctx context.Context, items []ContentItem) (*BatchSolveResult, error) {
	batch := &BatchSolveResult{Results: make([]SolveResult, 0, len(items))}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := c.Solve(ctx, []byte(item.Content), types.ExtendedProvenance{Source: item.Source})
		if err == nil {
			err = batch.Totals.Add(r.Report)
		}
		if err != nil {
			c.logger.Warn("solve failed", zap.String("source", item.Source), zap.Error(err))
			batch.Results = append(batch.Results, SolveResult{Source: item.Source, Error: err.Error()})
			batch.Failed++
			continue
		}
		batch.Results = append(batch.Results, *r)
	}
	return batch, nil
}

// Close releases the store.
func (c *Core) Close() error {
	return c.store.Close()
}
