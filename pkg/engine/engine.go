// Package engine computes part-number and gear-ratio sums over a grid.
package engine

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/praetorian-inc/schematic/pkg/grid"
	"github.com/praetorian-inc/schematic/pkg/types"
)

// ErrOverflow is returned when a number, product, or sum does not fit in 64 bits.
var ErrOverflow = errors.New("value exceeds 64 bits")

// PartNumbers sums every number that has at least one symbol among its
// neighbors. The returned parts are in grid order.
func PartNumbers(g *grid.Grid) (uint64, []types.PartNumber, error) {
	var sum uint64
	var parts []types.PartNumber

	for s := range g.Spans() {
		if !s.Tile.IsNumber() || !touchesSymbol(g, s) {
			continue
		}
		v, err := value(s)
		if err != nil {
			return 0, nil, err
		}
		if sum, err = add(sum, v, s); err != nil {
			return 0, nil, err
		}
		parts = append(parts, types.PartNumber{Ref: s.Ref(), Value: v, Width: s.Columns.Len()})
	}
	return sum, parts, nil
}

// GearRatios sums the products of the two numbers next to each '*' that
// has exactly two number neighbors. Any other count contributes nothing.
func GearRatios(g *grid.Grid) (uint64, []types.Gear, error) {
	var sum uint64
	var gears []types.Gear

	for s := range g.Spans() {
		if !s.Tile.IsGear() {
			continue
		}
		numbers, ok := exactlyTwoNumbers(g, s)
		if !ok {
			continue
		}
		a, err := value(numbers[0])
		if err != nil {
			return 0, nil, err
		}
		b, err := value(numbers[1])
		if err != nil {
			return 0, nil, err
		}
		hi, ratio := bits.Mul64(a, b)
		if hi != 0 {
			return 0, nil, fmt.Errorf("gear ratio at %s: %d * %d: %w", s.Ref(), a, b, ErrOverflow)
		}
		if sum, err = add(sum, ratio, s); err != nil {
			return 0, nil, err
		}
		gears = append(gears, types.Gear{
			Ref:     s.Ref(),
			Numbers: [2]types.SpanRef{numbers[0].Ref(), numbers[1].Ref()},
			Values:  [2]uint64{a, b},
			Ratio:   ratio,
		})
	}
	return sum, gears, nil
}

// Analyze runs both passes and fills a report. The caller sets Report.ID.
func Analyze(g *grid.Grid) (*types.Report, error) {
	partSum, parts, err := PartNumbers(g)
	if err != nil {
		return nil, fmt.Errorf("summing part numbers: %w", err)
	}
	gearSum, gears, err := GearRatios(g)
	if err != nil {
		return nil, fmt.Errorf("summing gear ratios: %w", err)
	}

	return &types.Report{
		Rows:          g.Len(),
		Spans:         g.SpanCount(),
		PartNumberSum: partSum,
		GearRatioSum:  gearSum,
		Parts:         parts,
		Gears:         gears,
		AnalyzedAt:    time.Now().UTC(),
	}, nil
}

func touchesSymbol(g *grid.Grid, s types.Span) bool {
	for n := range g.Perimeter(s) {
		if n.Tile.IsSymbol() {
			return true
		}
	}
	return false
}

// exactlyTwoNumbers stops reading the perimeter at the third number.
func exactlyTwoNumbers(g *grid.Grid, s types.Span) ([2]types.Span, bool) {
	var found [2]types.Span
	count := 0
	for n := range g.Perimeter(s) {
		if !n.Tile.IsNumber() {
			continue
		}
		if count == 2 {
			return found, false
		}
		found[count] = n
		count++
	}
	return found, count == 2
}

func value(s types.Span) (uint64, error) {
	if s.Tile.Overflow {
		return 0, fmt.Errorf("number at %s (%d digits): %w", s.Ref(), s.Columns.Len(), ErrOverflow)
	}
	return s.Tile.Value, nil
}

func add(sum, v uint64, at types.Span) (uint64, error) {
	total, carry := bits.Add64(sum, v, 0)
	if carry != 0 {
		return 0, fmt.Errorf("running sum at %s: %w", at.Ref(), ErrOverflow)
	}
	return total, nil
}
