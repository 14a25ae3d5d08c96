package game

import (
	"math/bits"

	"tic_tac_chec/internal/shared"
)

// Bitboard represents a set of cells, one bit per row-major index.
type Bitboard uint16

func BB(p Position) Bitboard { return 1 << p.Index() }

func (b Bitboard) Empty() bool { return b == 0 }

func (b Bitboard) Count() int { return bits.OnesCount16(uint16(b)) }

func (b Bitboard) PopLSB() (Position, Bitboard) {
	if b == 0 {
		return Position{}, 0
	}
	idx := bits.TrailingZeros16(uint16(b))
	pos, _ := shared.PositionFromIndex(idx)
	return pos, b & (b - 1)
}

func (b Bitboard) Has(p Position) bool { return p.InBounds() && b&BB(p) != 0 }

func (b Bitboard) Add(p Position) Bitboard { return b | BB(p) }

// Iter visits set cells in row-major order.
func (b Bitboard) Iter(fn func(Position)) {
	bb := b
	for bb != 0 {
		pos, rest := bb.PopLSB()
		fn(pos)
		bb = rest
	}
}

func (b Bitboard) Positions() []Position {
	out := make([]Position, 0, b.Count())
	b.Iter(func(p Position) { out = append(out, p) })
	return out
}

func BitboardOf(positions ...Position) Bitboard {
	var b Bitboard
	for _, p := range positions {
		if p.InBounds() {
			b = b.Add(p)
		}
	}
	return b
}
