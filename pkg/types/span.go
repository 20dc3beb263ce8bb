package types

import "fmt"

// SpanRef is a stable handle to a span: its row and first column.
// Spans within a row never overlap, so the pair is unique in a grid.
type SpanRef struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// String renders the 0-based position as "row:column".
func (r SpanRef) String() string {
	return fmt.Sprintf("%d:%d", r.Row, r.Column)
}

// Span is an occurrence of a Tile at a row, covering Columns.
type Span struct {
	Tile    Tile
	Row     int
	Columns ColumnSpan
}

// Ref returns the position handle of s.
func (s Span) Ref() SpanRef {
	return SpanRef{Row: s.Row, Column: s.Columns.Start}
}

// SamePosition reports whether s and other are the same grid occurrence.
// Tile values are not compared.
func (s Span) SamePosition(other Span) bool {
	return s.Row == other.Row && s.Columns == other.Columns
}

// String renders the span for diagnostics, e.g. "number(467)@0[0,3)".
func (s Span) String() string {
	return fmt.Sprintf("%s@%d[%d,%d)", s.Tile, s.Row, s.Columns.Start, s.Columns.End)
}
