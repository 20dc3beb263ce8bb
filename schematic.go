// Package schematic analyses engine schematics.
//
// A schematic is a block of text in which digits form numbers, '.' is empty
// space, and every other character is a symbol. A number next to a symbol,
// including diagonally, is a part number. A '*' next to exactly two numbers
// is a gear, and its gear ratio is the product of those numbers.
//
// # Basic Usage
//
//	report, err := schematic.Analyze("467..114..\n...*......\n..35..633.")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.PartNumberSum, report.GearRatioSum)
//
// # Reusing an Analyzer
//
// An Analyzer carries options and is safe for concurrent use:
//
//	a := schematic.NewAnalyzer(schematic.WithWorkers(8))
//	report, err := a.AnalyzeBytes(ctx, content)
package schematic

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/praetorian-inc/schematic/pkg/engine"
	"github.com/praetorian-inc/schematic/pkg/grid"
	"github.com/praetorian-inc/schematic/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/schematic" without subpackages.
type (
	// Report is the analysis of one schematic.
	Report = types.Report

	// PartNumber is a number adjacent to a symbol.
	PartNumber = types.PartNumber

	// Gear is a '*' adjacent to exactly two numbers.
	Gear = types.Gear

	// Span is one run of same-class characters in a row.
	Span = types.Span

	// Tile is the value carried by a Span.
	Tile = types.Tile

	// SchematicID identifies a schematic by content.
	SchematicID = types.SchematicID
)

// ErrOverflow is returned when a value or sum does not fit in 64 bits.
var ErrOverflow = engine.ErrOverflow

// Analyzer builds grids and runs both aggregation passes.
type Analyzer struct {
	workers int
	logger  *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorkers tokenizes rows on n goroutines. Default is 1.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithLogger sets the logger used for debug output. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		workers: 1,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeBytes analyses content. The returned report carries the content's
// SchematicID.
func (a *Analyzer) AnalyzeBytes(ctx context.Context, content []byte) (*Report, error) {
	id := types.ComputeSchematicID(content)

	g, err := grid.Build(ctx, string(content), grid.Options{Workers: a.workers})
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	a.logger.Debug("grid built",
		zap.String("schematic", id.Short()),
		zap.Int("rows", g.Len()),
		zap.Int("spans", g.SpanCount()))

	report, err := engine.Analyze(g)
	if err != nil {
		return nil, err
	}
	report.ID = id

	a.logger.Debug("schematic analysed",
		zap.String("schematic", id.Short()),
		zap.Uint64("part_number_sum", report.PartNumberSum),
		zap.Uint64("gear_ratio_sum", report.GearRatioSum),
		zap.Int("gears", len(report.Gears)))
	return report, nil
}

// AnalyzeString analyses content.
func (a *Analyzer) AnalyzeString(ctx context.Context, content string) (*Report, error) {
	return a.AnalyzeBytes(ctx, []byte(content))
}

// AnalyzeFile reads and analyses a file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return a.AnalyzeBytes(ctx, content)
}

// Analyze analyses content with default options.
func Analyze(content string) (*Report, error) {
	return NewAnalyzer().AnalyzeString(context.Background(), content)
}
