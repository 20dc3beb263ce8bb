package types

// ColumnSpan is column range [Start, End) - half-open interval.
type ColumnSpan struct {
	Start int
	End   int
}

// Len returns the number of columns covered.
func (c ColumnSpan) Len() int {
	return c.End - c.Start
}

// Contains reports whether col lies in the span.
func (c ColumnSpan) Contains(col int) bool {
	return col >= c.Start && col < c.End
}

// Intersects reports whether two half-open spans share at least one column.
func (c ColumnSpan) Intersects(other ColumnSpan) bool {
	return c.Start < c.End && other.Start < other.End &&
		c.Start < other.End && other.Start < c.End
}

// Widen grows the span by n columns on each side. Start is clamped at 0.
func (c ColumnSpan) Widen(n int) ColumnSpan {
	start := c.Start - n
	if start < 0 {
		start = 0
	}
	return ColumnSpan{Start: start, End: c.End + n}
}

// SourcePoint is line:column position (1-based).
type SourcePoint struct {
	Line   int
	Column int
}

// Source returns the 1-based position of the first column of a span in row.
func Source(row int, columns ColumnSpan) SourcePoint {
	return SourcePoint{Line: row + 1, Column: columns.Start + 1}
}
