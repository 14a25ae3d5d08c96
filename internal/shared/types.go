package shared

import (
	"fmt"
	"strings"
)

// BoardSize is the edge length of the square board.
const BoardSize = 4

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Index() int { return int(c) }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Forward is the row delta a pawn of this color advances by.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", string(text))
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return 0, false
	}
}

var AllColors = []Color{White, Black}

type PieceType uint8

const (
	Rook PieceType = iota
	Bishop
	Knight
	Pawn
)

func (p PieceType) String() string {
	switch p {
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

func (p PieceType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, ok := ParsePieceType(string(text))
	if !ok {
		return fmt.Errorf("invalid piece type %q", string(text))
	}
	*p = parsed
	return nil
}

func ParsePieceType(s string) (PieceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rook", "r":
		return Rook, true
	case "bishop", "b":
		return Bishop, true
	case "knight", "n":
		return Knight, true
	case "pawn", "p":
		return Pawn, true
	default:
		return 0, false
	}
}

// AllPieceTypes lists the reserve order each player starts with.
var AllPieceTypes = []PieceType{Rook, Bishop, Knight, Pawn}

// Position addresses a cell by row (0 is white's far edge) and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Pos(row, col int) Position { return Position{Row: row, Col: col} }

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Index is the row-major cell index, valid only for in-bounds positions.
func (p Position) Index() int { return p.Row*BoardSize + p.Col }

func (p Position) Add(o Offset) Position {
	return Position{Row: p.Row + o.DR, Col: p.Col + o.DC}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func PositionFromIndex(idx int) (Position, bool) {
	if idx < 0 || idx >= BoardSize*BoardSize {
		return Position{}, false
	}
	return Position{Row: idx / BoardSize, Col: idx % BoardSize}, true
}

// AllPositions returns every cell in row-major order.
func AllPositions() []Position {
	out := make([]Position, 0, BoardSize*BoardSize)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			out = append(out, Position{Row: row, Col: col})
		}
	}
	return out
}
