package solver

import (
	"fmt"
	"math/bits"

	"github.com/praetorian-inc/schematic/pkg/engine"
	"github.com/praetorian-inc/schematic/pkg/types"
)

// ContentItem is one schematic submitted for solving.
type ContentItem struct {
	Source  string `json:"source"`  // label recorded as provenance, e.g. "day3/input.txt"
	Content string `json:"content"` // the schematic text
}

// SolveResult is the outcome for a single schematic.
type SolveResult struct {
	Source string        `json:"source"`
	Report *types.Report `json:"report,omitempty"`
	Cached bool          `json:"cached,omitempty"` // report came from the store
	Error  string        `json:"error,omitempty"`
}

// BatchSolveResult is the outcome for a batch of schematics.
type BatchSolveResult struct {
	Results []SolveResult `json:"results"`
	Totals  Totals        `json:"totals"`
	Failed  int           `json:"failed"`
}

// Totals accumulates sums across schematics.
type Totals struct {
	Schematics    int    `json:"schematics"`
	PartNumberSum uint64 `json:"part_number_sum"`
	GearRatioSum  uint64 `json:"gear_ratio_sum"`
}

// Add folds r into t. On overflow t is left unchanged and the error wraps
// engine.ErrOverflow.
func (t *Totals) Add(r *types.Report) error {
	parts, carry := bits.Add64(t.PartNumberSum, r.PartNumberSum, 0)
	if carry != 0 {
		return fmt.Errorf("part number total after %s: %w", r.ID.Short(), engine.ErrOverflow)
	}
	gears, carry := bits.Add64(t.GearRatioSum, r.GearRatioSum, 0)
	if carry != 0 {
		return fmt.Errorf("gear ratio total after %s: %w", r.ID.Short(), engine.ErrOverflow)
	}
	t.Schematics++
	t.PartNumberSum = parts
	t.GearRatioSum = gears
	return nil
}
