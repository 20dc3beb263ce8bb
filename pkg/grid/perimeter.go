package grid

import (
	"iter"
	"slices"
	"sort"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// Perimeter yields every span other than pivot whose columns overlap the
// pivot's columns widened by one, on the pivot's row and the rows directly
// above and below. Rows are visited top to bottom and spans left to right.
//
// The pivot is matched by position, so it may be any span value taken from
// this grid. The sequence is lazy and can be ranged over again with the
// same result.
func (g *Grid) Perimeter(pivot types.Span) iter.Seq[types.Span] {
	return func(yield func(types.Span) bool) {
		if len(g.rows) == 0 {
			return
		}
		first := max(pivot.Row-1, 0)
		last := min(pivot.Row+1, len(g.rows)-1)
		window := pivot.Columns.Widen(1)

		for r := first; r <= last; r++ {
			row := g.rows[r]
			// first span ending after the window starts
			i := sort.Search(len(row), func(i int) bool { return row[i].Columns.End > window.Start })
			for ; i < len(row) && row[i].Columns.Start < window.End; i++ {
				s := row[i]
				if s.SamePosition(pivot) || !s.Columns.Intersects(window) {
					continue
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Neighbors collects Perimeter(pivot).
func (g *Grid) Neighbors(pivot types.Span) []types.Span {
	return slices.Collect(g.Perimeter(pivot))
}
