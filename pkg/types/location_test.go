package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnSpan_HalfOpen(t *testing.T) {
	// ColumnSpan is [Start, End) - half-open interval
	span := ColumnSpan{Start: 2, End: 5}

	assert.Equal(t, 3, span.Len())
	assert.False(t, span.Contains(1))
	assert.True(t, span.Contains(2))
	assert.True(t, span.Contains(4))
	assert.False(t, span.Contains(5))
}

func TestColumnSpan_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b ColumnSpan
		want bool
	}{
		{"identical", ColumnSpan{0, 3}, ColumnSpan{0, 3}, true},
		{"overlap", ColumnSpan{0, 3}, ColumnSpan{2, 4}, true},
		{"contained", ColumnSpan{0, 10}, ColumnSpan{4, 5}, true},
		{"touching is disjoint", ColumnSpan{0, 3}, ColumnSpan{3, 4}, false},
		{"apart", ColumnSpan{0, 1}, ColumnSpan{5, 6}, false},
		{"empty never intersects", ColumnSpan{2, 2}, ColumnSpan{0, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a), "intersection must be symmetric")
		})
	}
}

func TestColumnSpan_Widen(t *testing.T) {
	assert.Equal(t, ColumnSpan{Start: 1, End: 6}, ColumnSpan{Start: 2, End: 5}.Widen(1))
	assert.Equal(t, ColumnSpan{Start: 0, End: 4}, ColumnSpan{Start: 0, End: 3}.Widen(1), "start clamps at zero")
	assert.Equal(t, ColumnSpan{Start: 0, End: 2}, ColumnSpan{Start: 1, End: 1}.Widen(1))
}

func TestSource(t *testing.T) {
	point := Source(4, ColumnSpan{Start: 3, End: 4})
	assert.Equal(t, SourcePoint{Line: 5, Column: 4}, point)
}
