package grid

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/schematic/pkg/types"
)

const canonical = `467..114..
...*......
..35..633.
......#...
617*......
.....+.58.
..592.....
......755.
...$.*....
.664.598..`

func TestNew_Empty(t *testing.T) {
	g := New("")
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, g.SpanCount())
	assert.Nil(t, g.Row(0))
}

func TestNew_RowsAreIndexedByLine(t *testing.T) {
	g := New(canonical)
	require.Equal(t, 10, g.Len())

	for i := 0; i < g.Len(); i++ {
		for _, s := range g.Row(i) {
			assert.Equal(t, i, s.Row)
		}
	}

	first := g.Row(0)
	require.Len(t, first, 4)
	assert.Equal(t, types.NumberTile(467), first[0].Tile)
	assert.Equal(t, types.NumberTile(114), first[2].Tile)
}

func TestNew_RaggedRows(t *testing.T) {
	g := New("1234567\n*\n..")
	require.Equal(t, 3, g.Len())
	assert.Len(t, g.Row(0), 1)
	assert.Len(t, g.Row(1), 1)
	assert.Len(t, g.Row(2), 1)
	assert.Equal(t, types.ColumnSpan{Start: 0, End: 2}, g.Row(2)[0].Columns)
}

func TestBuild_MatchesNew(t *testing.T) {
	want := New(canonical)

	for _, workers := range []int{0, 1, 2, 8} {
		got, err := Build(context.Background(), canonical, Options{Workers: workers})
		require.NoError(t, err)
		if diff := cmp.Diff(want.rows, got.rows); diff != "" {
			t.Errorf("Build(workers=%d) mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, canonical, Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Build(ctx, strings.Repeat("1.*\n", 100), Options{Workers: 4})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSpans_RowMajor(t *testing.T) {
	g := New("1*\n.2")

	var got []string
	for s := range g.Spans() {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{
		"number(1)@0[0,1)",
		"symbol('*')@0[1,2)",
		"empty@1[0,1)",
		"number(2)@1[1,2)",
	}, got)
	assert.Equal(t, 4, g.SpanCount())

	// stopping early is allowed
	for range g.Spans() {
		break
	}
}

func TestLookupAndAt(t *testing.T) {
	g := New(canonical)

	s, ok := g.Lookup(types.SpanRef{Row: 2, Column: 6})
	require.True(t, ok)
	assert.Equal(t, types.NumberTile(633), s.Tile)

	_, ok = g.Lookup(types.SpanRef{Row: 2, Column: 7})
	assert.False(t, ok, "column 7 is inside 633, not its start")

	s, ok = g.At(2, 7)
	require.True(t, ok)
	assert.Equal(t, types.NumberTile(633), s.Tile)

	_, ok = g.At(2, 10)
	assert.False(t, ok)
	_, ok = g.At(42, 0)
	assert.False(t, ok)
}
