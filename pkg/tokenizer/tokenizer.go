// Package tokenizer turns schematic rows into spans.
//
// A row is scanned left to right and each character is classified as a
// digit, '.', or a symbol. Consecutive characters of the same class are
// merged into one span: digits accumulate into a decimal value, dots into
// one empty span, and a symbol only with further copies of the same
// character. The spans of a row are contiguous, in column order, and cover
// the row exactly.
package tokenizer

import (
	"math/bits"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// Classify returns the single-character tile for r.
func Classify(r rune) types.Tile {
	switch {
	case r >= '0' && r <= '9':
		return types.NumberTile(uint64(r - '0'))
	case r == '.':
		return types.EmptyTile()
	default:
		return types.SymbolTile(r)
	}
}

// TokenizeRow converts line into spans for the given row index.
// Columns count characters, not bytes. It never fails: any character that
// is neither a digit nor '.' becomes a symbol.
func TokenizeRow(row int, line string) []types.Span {
	spans := make([]types.Span, 0, len(line)/2+1)

	var open types.Span
	col := 0
	for _, r := range line {
		tile := Classify(r)
		switch {
		case col == 0:
			open = types.Span{Tile: tile, Row: row, Columns: types.ColumnSpan{Start: 0, End: 1}}
		case merges(open.Tile, tile):
			open.Tile = absorb(open.Tile, tile)
			open.Columns.End++
		default:
			spans = append(spans, open)
			open = types.Span{Tile: tile, Row: row, Columns: types.ColumnSpan{Start: col, End: col + 1}}
		}
		col++
	}
	if col > 0 {
		spans = append(spans, open)
	}
	return spans
}

// merges reports whether next extends a run currently holding cur.
func merges(cur, next types.Tile) bool {
	if cur.Kind != next.Kind {
		return false
	}
	if cur.Kind == types.TileSymbol {
		return cur.Symbol == next.Symbol
	}
	return true
}

// absorb folds next into cur. For numbers this is cur*10 + digit; the
// Overflow flag sticks once the value no longer fits.
func absorb(cur, next types.Tile) types.Tile {
	if cur.Kind != types.TileNumber {
		return cur
	}
	if cur.Overflow {
		return cur
	}
	hi, lo := bits.Mul64(cur.Value, 10)
	sum, carry := bits.Add64(lo, next.Value, 0)
	if hi != 0 || carry != 0 {
		return types.Tile{Kind: types.TileNumber, Overflow: true}
	}
	return types.NumberTile(sum)
}
