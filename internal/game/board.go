package game

import (
	"encoding/json"
	"strings"

	"tic_tac_chec/internal/shared"
)

// Cell is one square of the board. Its position never changes, only its occupant.
type Cell struct {
	Piece    *Piece   `json:"piece"`
	Position Position `json:"position"`
}

// Board is the fixed 4x4 grid.
type Board struct {
	cells [shared.BoardSize][shared.BoardSize]Cell
}

// NewBoard returns an empty board with every cell's position fixed.
func NewBoard() *Board {
	b := &Board{}
	for row := 0; row < shared.BoardSize; row++ {
		for col := 0; col < shared.BoardSize; col++ {
			b.cells[row][col] = Cell{Position: Position{Row: row, Col: col}}
		}
	}
	return b
}

// Clone returns an independent copy that shares no piece pointers with b.
func (b *Board) Clone() *Board {
	out := &Board{}
	for row := range b.cells {
		for col, cell := range b.cells[row] {
			copied := Cell{Position: cell.Position}
			if cell.Piece != nil {
				pc := *cell.Piece
				copied.Piece = &pc
			}
			out.cells[row][col] = copied
		}
	}
	return out
}

func (b *Board) At(p Position) (Cell, bool) {
	if !p.InBounds() {
		return Cell{}, false
	}
	return b.cells[p.Row][p.Col], true
}

// PieceAt returns the occupant of p, or nil for empty or out-of-bounds cells.
func (b *Board) PieceAt(p Position) *Piece {
	if !p.InBounds() {
		return nil
	}
	return b.cells[p.Row][p.Col].Piece
}

func (b *Board) IsEmpty(p Position) bool {
	return p.InBounds() && b.cells[p.Row][p.Col].Piece == nil
}

// Set puts pc on p; a nil pc clears the cell.
func (b *Board) Set(p Position, pc *Piece) {
	if !p.InBounds() {
		return
	}
	if pc != nil {
		copied := *pc
		pc = &copied
	}
	b.cells[p.Row][p.Col].Piece = pc
}

func (b *Board) Clear(p Position) { b.Set(p, nil) }

// Place is a convenience for tests and puzzle setups.
func (b *Board) Place(p Position, pc Piece) { b.Set(p, &pc) }

// EmptyCells returns every unoccupied cell in row-major order.
func (b *Board) EmptyCells() []Position {
	return b.emptyMask().Positions()
}

func (b *Board) emptyMask() Bitboard {
	var mask Bitboard
	for row := range b.cells {
		for col := range b.cells[row] {
			if b.cells[row][col].Piece == nil {
				mask = mask.Add(Position{Row: row, Col: col})
			}
		}
	}
	return mask
}

// Occupancy returns the cells holding color's pieces.
func (b *Board) Occupancy(color Color) Bitboard {
	var mask Bitboard
	for row := range b.cells {
		for col := range b.cells[row] {
			if pc := b.cells[row][col].Piece; pc != nil && pc.Owner == color {
				mask = mask.Add(Position{Row: row, Col: col})
			}
		}
	}
	return mask
}

// PlacedPiece is a piece together with the cell it stands on.
type PlacedPiece struct {
	Piece    Piece
	Position Position
}

// Pieces lists color's pieces in row-major order.
func (b *Board) Pieces(color Color) []PlacedPiece {
	var out []PlacedPiece
	for row := range b.cells {
		for col := range b.cells[row] {
			if pc := b.cells[row][col].Piece; pc != nil && pc.Owner == color {
				out = append(out, PlacedPiece{Piece: *pc, Position: Position{Row: row, Col: col}})
			}
		}
	}
	return out
}

// Find locates the piece with the given id.
func (b *Board) Find(id string) (Position, bool) {
	for row := range b.cells {
		for col := range b.cells[row] {
			if pc := b.cells[row][col].Piece; pc != nil && pc.ID == id {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

func (b *Board) Count() int {
	return b.Occupancy(White).Count() + b.Occupancy(Black).Count()
}

// Rows returns a copy of the grid suitable for serialization.
func (b *Board) Rows() [][]Cell {
	out := make([][]Cell, shared.BoardSize)
	for row := range b.cells {
		out[row] = make([]Cell, shared.BoardSize)
		for col, cell := range b.cells[row] {
			if cell.Piece != nil {
				pc := *cell.Piece
				cell.Piece = &pc
			}
			out[row][col] = cell
		}
	}
	return out
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

// String renders the board one row per line, uppercase for white.
func (b *Board) String() string {
	var sb strings.Builder
	for row := range b.cells {
		for col := range b.cells[row] {
			pc := b.cells[row][col].Piece
			if pc == nil {
				sb.WriteByte('.')
				continue
			}
			ch := pieceLetter(pc.Type)
			if pc.Owner == White {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pieceLetter(pt PieceType) byte {
	switch pt {
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	default:
		return 'p'
	}
}
