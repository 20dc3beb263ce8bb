// Package grid holds a tokenized schematic and answers adjacency queries.
//
// A Grid is built once from the whole input and is read-only afterwards,
// so it can be shared between goroutines without locking.
package grid

import (
	"context"
	"iter"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/schematic/pkg/tokenizer"
	"github.com/praetorian-inc/schematic/pkg/types"
)

// Grid is an ordered sequence of tokenized rows.
type Grid struct {
	rows [][]types.Span
}

// Options configures Build.
type Options struct {
	// Workers is the number of goroutines tokenizing rows.
	// Values below 2 tokenize sequentially.
	Workers int
}

// New tokenizes every row of input. It never fails; empty input gives an
// empty grid.
func New(input string) *Grid {
	lines := types.SplitRows(input)
	rows := make([][]types.Span, len(lines))
	for i, line := range lines {
		rows[i] = tokenizer.TokenizeRow(i, line)
	}
	return &Grid{rows: rows}
}

// Build is New with optional parallel row tokenization. Rows have no
// dependency on each other, so the result equals New(input). The only
// error is cancellation of ctx.
func Build(ctx context.Context, input string, opts Options) (*Grid, error) {
	if opts.Workers < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return New(input), nil
	}

	lines := types.SplitRows(input)
	rows := make([][]types.Span, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, line := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = tokenizer.TokenizeRow(i, line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Grid{rows: rows}, nil
}

// Len returns the number of rows.
func (g *Grid) Len() int {
	return len(g.rows)
}

// Row returns the spans of row i in column order. Callers must not modify
// the returned slice.
func (g *Grid) Row(i int) []types.Span {
	if i < 0 || i >= len(g.rows) {
		return nil
	}
	return g.rows[i]
}

// SpanCount returns the number of spans in the grid.
func (g *Grid) SpanCount() int {
	n := 0
	for _, row := range g.rows {
		n += len(row)
	}
	return n
}

// Spans yields every span, row by row and left to right.
func (g *Grid) Spans() iter.Seq[types.Span] {
	return func(yield func(types.Span) bool) {
		for _, row := range g.rows {
			for _, s := range row {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Lookup returns the span starting at ref.
func (g *Grid) Lookup(ref types.SpanRef) (types.Span, bool) {
	row := g.Row(ref.Row)
	i := sort.Search(len(row), func(i int) bool { return row[i].Columns.Start >= ref.Column })
	if i < len(row) && row[i].Columns.Start == ref.Column {
		return row[i], true
	}
	return types.Span{}, false
}

// At returns the span covering column col of row, if any.
func (g *Grid) At(row, col int) (types.Span, bool) {
	spans := g.Row(row)
	i := sort.Search(len(spans), func(i int) bool { return spans[i].Columns.End > col })
	if i < len(spans) && spans[i].Columns.Contains(col) {
		return spans[i], true
	}
	return types.Span{}, false
}
