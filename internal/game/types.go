package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"tic_tac_chec/internal/shared"
)

type (
	Color     = shared.Color
	PieceType = shared.PieceType
	Position  = shared.Position
)

const (
	White = shared.White
	Black = shared.Black

	Rook   = shared.Rook
	Bishop = shared.Bishop
	Knight = shared.Knight
	Pawn   = shared.Pawn
)

// MovementThreshold is the total placed count at which the game enters movement.
const MovementThreshold = 6

type Phase uint8

const (
	PhasePlacement Phase = iota
	PhaseMovement
)

func (p Phase) String() string {
	if p == PhaseMovement {
		return "movement"
	}
	return "placement"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// PhaseFor derives the phase from the number of pieces both players have on the board.
func PhaseFor(totalPlaced int) Phase {
	if totalPlaced >= MovementThreshold {
		return PhaseMovement
	}
	return PhasePlacement
}

type Mode uint8

const (
	ModeLocal Mode = iota
	ModeAI
)

func (m Mode) String() string {
	if m == ModeAI {
		return "ai"
	}
	return "local"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, ok := ParseMode(string(text))
	if !ok {
		return fmt.Errorf("invalid mode %q", string(text))
	}
	*m = parsed
	return nil
}

func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "pvp":
		return ModeLocal, true
	case "ai", "cpu":
		return ModeAI, true
	default:
		return ModeLocal, false
	}
}

type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

var AllDifficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "?"
	}
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, ok := ParseDifficulty(string(text))
	if !ok {
		return fmt.Errorf("invalid difficulty %q", string(text))
	}
	*d = parsed
	return nil
}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	default:
		return Medium, false
	}
}

// Piece is immutable once created. Its ID is unique across the board and both reserves.
type Piece struct {
	ID    string    `json:"id"`
	Type  PieceType `json:"type"`
	Owner Color     `json:"owner"`
}

func NewPiece(owner Color, pt PieceType) Piece {
	return Piece{ID: owner.String() + "-" + pt.String(), Type: pt, Owner: owner}
}

func (p Piece) String() string { return p.ID }

// NewReserve returns one piece of each type for owner.
func NewReserve(owner Color) []Piece {
	out := make([]Piece, 0, len(shared.AllPieceTypes))
	for _, pt := range shared.AllPieceTypes {
		out = append(out, NewPiece(owner, pt))
	}
	return out
}

// Origin is where a moving piece starts: a board cell, or the owner's reserve.
type Origin struct {
	pos     Position
	onBoard bool
}

func FromReserve() Origin { return Origin{} }

func OnBoard(p Position) Origin { return Origin{pos: p, onBoard: true} }

func (o Origin) OnBoard() bool { return o.onBoard }

func (o Origin) Position() (Position, bool) {
	if !o.onBoard {
		return Position{}, false
	}
	return o.pos, true
}

func (o Origin) String() string {
	if !o.onBoard {
		return "reserve"
	}
	return o.pos.String()
}

// MarshalJSON renders a reserve origin as null.
func (o Origin) MarshalJSON() ([]byte, error) {
	if !o.onBoard {
		return []byte("null"), nil
	}
	return json.Marshal(o.pos)
}

func (o *Origin) UnmarshalJSON(data []byte) error {
	var p *Position
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if p == nil {
		*o = FromReserve()
		return nil
	}
	*o = OnBoard(*p)
	return nil
}

// Move is a fully specified action. Captured is set only for executed moves.
type Move struct {
	Piece    Piece    `json:"piece"`
	From     Origin   `json:"from"`
	To       Position `json:"to"`
	Captured *Piece   `json:"captured,omitempty"`
}

func (m Move) IsPlacement() bool { return !m.From.OnBoard() }

func (m Move) String() string {
	if m.Captured != nil {
		return fmt.Sprintf("%s %s->%s x%s", m.Piece, m.From, m.To, m.Captured)
	}
	return fmt.Sprintf("%s %s->%s", m.Piece, m.From, m.To)
}
