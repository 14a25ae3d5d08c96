package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		from Position
		to   Position
		want []Position
	}{
		{name: "row", from: Pos(0, 0), to: Pos(0, 3), want: []Position{Pos(0, 1), Pos(0, 2)}},
		{name: "column upward", from: Pos(3, 2), to: Pos(0, 2), want: []Position{Pos(2, 2), Pos(1, 2)}},
		{name: "diagonal", from: Pos(0, 3), to: Pos(3, 0), want: []Position{Pos(1, 2), Pos(2, 1)}},
		{name: "adjacent", from: Pos(1, 1), to: Pos(1, 2), want: nil},
		{name: "knight jump", from: Pos(0, 0), to: Pos(2, 1), want: nil},
		{name: "same cell", from: Pos(2, 2), to: Pos(2, 2), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Line(tt.from, tt.to))
		})
	}
}

func TestColorForward(t *testing.T) {
	assert.Equal(t, -1, White.Forward())
	assert.Equal(t, 1, Black.Forward())
	assert.Equal(t, Black, White.Opposite())
}

func TestParsePieceType(t *testing.T) {
	for _, pt := range AllPieceTypes {
		got, ok := ParsePieceType(pt.String())
		assert.True(t, ok)
		assert.Equal(t, pt, got)
	}
	_, ok := ParsePieceType("queen")
	assert.False(t, ok)
}

func TestAllPositionsRowMajor(t *testing.T) {
	all := AllPositions()
	assert.Len(t, all, BoardSize*BoardSize)
	for i, p := range all {
		assert.Equal(t, i, p.Index())
		back, ok := PositionFromIndex(i)
		assert.True(t, ok)
		assert.Equal(t, p, back)
	}
}
