package grid

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/schematic/pkg/types"
)

func lookup(t *testing.T, g *Grid, row, col int) types.Span {
	t.Helper()
	s, ok := g.At(row, col)
	require.True(t, ok, "no span at %d:%d", row, col)
	return s
}

func describe(spans []types.Span) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.String()
	}
	return out
}

func TestPerimeter_Canonical(t *testing.T) {
	g := New(canonical)

	// 617 on row 4 sits next to '*' at 4:3
	pivot := lookup(t, g, 4, 0)
	assert.Equal(t, []string{
		"empty@3[0,6)",
		"symbol('*')@4[3,4)",
		"empty@5[0,5)",
	}, describe(g.Neighbors(pivot)))

	// '*' on row 1 touches 467 and 35
	gear := lookup(t, g, 1, 3)
	assert.Equal(t, []string{
		"number(467)@0[0,3)",
		"empty@0[3,5)",
		"empty@1[0,3)",
		"empty@1[4,10)",
		"number(35)@2[2,4)",
		"empty@2[4,6)",
	}, describe(g.Neighbors(gear)))
}

func TestPerimeter_ExcludesPivotByPosition(t *testing.T) {
	// three identical '1' spans on consecutive rows
	g := New("1\n1\n1")
	pivot := lookup(t, g, 1, 0)

	got := g.Neighbors(pivot)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Row)
	assert.Equal(t, 2, got[1].Row)
}

func TestPerimeter_Boundaries(t *testing.T) {
	g := New("1*\n*1")

	top := lookup(t, g, 0, 0)
	assert.Equal(t, []string{
		"symbol('*')@0[1,2)",
		"symbol('*')@1[0,1)",
		"number(1)@1[1,2)",
	}, describe(g.Neighbors(top)))

	bottom := lookup(t, g, 1, 1)
	assert.Equal(t, []string{
		"number(1)@0[0,1)",
		"symbol('*')@0[1,2)",
		"symbol('*')@1[0,1)",
	}, describe(g.Neighbors(bottom)))
}

func TestPerimeter_DoesNotReachTwoColumnsAway(t *testing.T) {
	g := New("1.*")
	pivot := lookup(t, g, 0, 0)
	assert.Equal(t, []string{"empty@0[1,2)"}, describe(g.Neighbors(pivot)))
}

func TestPerimeter_ShorterRowAbove(t *testing.T) {
	g := New("*\n......123")
	pivot := lookup(t, g, 1, 6)
	assert.Equal(t, []string{"empty@1[0,6)"}, describe(g.Neighbors(pivot)))
}

func TestPerimeter_EmptyGrid(t *testing.T) {
	g := New("")
	assert.Empty(t, g.Neighbors(types.Span{Row: 0, Columns: types.ColumnSpan{Start: 0, End: 1}}))
}

func TestPerimeter_Restartable(t *testing.T) {
	g := New(canonical)
	pivot := lookup(t, g, 8, 5)

	seq := g.Perimeter(pivot)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, first, g.Neighbors(pivot))
}

func TestPerimeter_PartialConsumption(t *testing.T) {
	g := New(canonical)
	pivot := lookup(t, g, 1, 3)

	var taken []types.Span
	for s := range g.Perimeter(pivot) {
		taken = append(taken, s)
		if len(taken) == 2 {
			break
		}
	}
	assert.Equal(t, g.Neighbors(pivot)[:2], taken)
}

func TestPerimeter_Symmetric(t *testing.T) {
	inputs := []string{
		canonical,
		"12.*.34",
		"1*\n*1",
		"@@@..\n.123.\n..**#",
		"1234567\n*\n..9",
	}

	for _, input := range inputs {
		g := New(input)
		all := slices.Collect(g.Spans())
		for _, a := range all {
			for _, b := range all {
				inA := slices.ContainsFunc(g.Neighbors(a), b.SamePosition)
				inB := slices.ContainsFunc(g.Neighbors(b), a.SamePosition)
				assert.Equal(t, inA, inB, "adjacency of %v and %v must be symmetric", a, b)
			}
		}
	}
}

func TestPerimeter_Ordered(t *testing.T) {
	g := New(canonical)
	for s := range g.Spans() {
		got := g.Neighbors(s)
		sorted := slices.IsSortedFunc(got, func(a, b types.Span) int {
			if a.Row != b.Row {
				return a.Row - b.Row
			}
			return a.Columns.Start - b.Columns.Start
		})
		assert.True(t, sorted, "neighbors of %v out of order", s)
	}
}
