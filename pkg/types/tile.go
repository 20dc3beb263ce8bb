package types

import "fmt"

// TileKind classifies a run of schematic characters.
type TileKind int

const (
	TileEmpty  TileKind = iota // run of '.'
	TileNumber                 // run of decimal digits
	TileSymbol                 // run of one repeated non-digit, non-'.' character
)

// GearSymbol marks a symbol that may be a gear.
const GearSymbol = '*'

// String returns the kind name.
func (k TileKind) String() string {
	switch k {
	case TileEmpty:
		return "empty"
	case TileNumber:
		return "number"
	case TileSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("TileKind(%d)", int(k))
	}
}

// Tile is the value carried by a Span.
// Value is meaningful only for numbers, Symbol only for symbols.
type Tile struct {
	Kind   TileKind
	Value  uint64
	Symbol rune

	// Overflow is set when the digits of a number do not fit in 64 bits.
	// Value is then undefined.
	Overflow bool
}

// NumberTile returns a number tile.
func NumberTile(v uint64) Tile {
	return Tile{Kind: TileNumber, Value: v}
}

// EmptyTile returns an empty tile.
func EmptyTile() Tile {
	return Tile{Kind: TileEmpty}
}

// SymbolTile returns a symbol tile for r.
func SymbolTile(r rune) Tile {
	return Tile{Kind: TileSymbol, Symbol: r}
}

// IsNumber reports whether t is a number.
func (t Tile) IsNumber() bool { return t.Kind == TileNumber }

// IsSymbol reports whether t is a symbol of any character.
func (t Tile) IsSymbol() bool { return t.Kind == TileSymbol }

// IsGear reports whether t is a '*' symbol.
func (t Tile) IsGear() bool { return t.Kind == TileSymbol && t.Symbol == GearSymbol }

// String renders the tile for diagnostics, e.g. "number(467)" or "symbol('*')".
func (t Tile) String() string {
	switch t.Kind {
	case TileNumber:
		if t.Overflow {
			return "number(overflow)"
		}
		return fmt.Sprintf("number(%d)", t.Value)
	case TileSymbol:
		return fmt.Sprintf("symbol(%q)", t.Symbol)
	default:
		return t.Kind.String()
	}
}
