package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTile_Predicates(t *testing.T) {
	assert.True(t, NumberTile(467).IsNumber())
	assert.False(t, NumberTile(467).IsSymbol())

	assert.True(t, SymbolTile('#').IsSymbol())
	assert.False(t, SymbolTile('#').IsGear())
	assert.True(t, SymbolTile('*').IsGear())

	assert.False(t, EmptyTile().IsNumber())
	assert.False(t, EmptyTile().IsSymbol())
}

func TestTile_Equality(t *testing.T) {
	assert.Equal(t, SymbolTile('*'), SymbolTile('*'))
	assert.NotEqual(t, SymbolTile('*'), SymbolTile('#'), "symbols keep their character")
	assert.Equal(t, EmptyTile(), Tile{})
}

func TestTile_String(t *testing.T) {
	assert.Equal(t, "number(467)", NumberTile(467).String())
	assert.Equal(t, "symbol('$')", SymbolTile('$').String())
	assert.Equal(t, "empty", EmptyTile().String())
	assert.Equal(t, "number(overflow)", Tile{Kind: TileNumber, Overflow: true}.String())
	assert.Equal(t, "TileKind(9)", TileKind(9).String())
}

func TestSpan_RefAndPosition(t *testing.T) {
	a := Span{Tile: NumberTile(7), Row: 2, Columns: ColumnSpan{Start: 3, End: 4}}
	b := Span{Tile: NumberTile(7), Row: 5, Columns: ColumnSpan{Start: 3, End: 4}}

	assert.Equal(t, SpanRef{Row: 2, Column: 3}, a.Ref())
	assert.Equal(t, "2:3", a.Ref().String())
	assert.True(t, a.SamePosition(a))
	assert.False(t, a.SamePosition(b), "equal values at different rows are different spans")
	assert.Equal(t, "number(7)@2[3,4)", a.String())
}
