package game

import (
	"fmt"

	"tic_tac_chec/internal/shared"
)

// GameState is a serializable snapshot of an Engine.
type GameState struct {
	Board         *Board     `json:"board"`
	CurrentPlayer Color      `json:"currentPlayer"`
	Phase         Phase      `json:"phase"`
	WhitePlaced   int        `json:"whitePiecesPlaced"`
	BlackPlaced   int        `json:"blackPiecesPlaced"`
	WhiteReserve  []Piece    `json:"whiteReserve"`
	BlackReserve  []Piece    `json:"blackReserve"`
	Selected      *Selection `json:"selectedPiece"`
	ValidMoves    []Position `json:"validMoves"`
	HasWinner     bool       `json:"hasWinner"`
	Winner        *Color     `json:"winner"`
	WinningLine   []Position `json:"winningLine"`
	Mode          Mode       `json:"gameMode"`
	Difficulty    Difficulty `json:"difficulty"`
	MoveHistory   []Move     `json:"moveHistory"`
}

// State returns a deep snapshot; mutating it does not affect the engine.
func (e *Engine) State() GameState {
	st := GameState{
		Board:         e.board.Clone(),
		CurrentPlayer: e.turn,
		Phase:         e.phase,
		WhitePlaced:   e.placed[White.Index()],
		BlackPlaced:   e.placed[Black.Index()],
		WhiteReserve:  e.Reserve(White),
		BlackReserve:  e.Reserve(Black),
		Selected:      e.Selection(),
		ValidMoves:    e.LegalMoves(),
		HasWinner:     e.hasWinner,
		WinningLine:   e.WinningLine(),
		Mode:          e.mode,
		Difficulty:    e.difficulty,
		MoveHistory:   e.history.All(),
	}
	if winner, ok := e.Winner(); ok {
		st.Winner = &winner
	}
	return st
}

// Board returns a copy of the current board.
func (e *Engine) Board() *Board { return e.board.Clone() }

func (e *Engine) CurrentPlayer() Color { return e.turn }

func (e *Engine) Phase() Phase { return e.phase }

func (e *Engine) Mode() Mode { return e.mode }

func (e *Engine) Difficulty() Difficulty { return e.difficulty }

// Reserve returns a copy of color's unplaced pieces.
func (e *Engine) Reserve(color Color) []Piece {
	return append([]Piece{}, e.reserves[color.Index()]...)
}

func (e *Engine) Placed(color Color) int { return e.placed[color.Index()] }

func (e *Engine) Selection() *Selection {
	if e.selection == nil {
		return nil
	}
	sel := *e.selection
	return &sel
}

// LegalMoves returns the destinations cached for the current selection.
func (e *Engine) LegalMoves() []Position { return e.legal.Positions() }

func (e *Engine) Winner() (Color, bool) { return e.winner, e.hasWinner }

func (e *Engine) WinningLine() []Position {
	if len(e.winningLine) == 0 {
		return nil
	}
	return append([]Position(nil), e.winningLine...)
}

func (e *Engine) History() []Move { return e.history.All() }

func (e *Engine) LastMove() (Move, bool) { return e.history.Last() }

// TotalPieces counts pieces on the board and in both reserves.
func (e *Engine) TotalPieces() int {
	return e.board.Count() + len(e.reserves[0]) + len(e.reserves[1])
}

// checkInvariants verifies piece conservation. A failure is an engine defect.
func (e *Engine) checkInvariants() error {
	seen := make(map[string]string, 2*len(shared.AllPieceTypes))
	record := func(id, where string) error {
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: piece %s at %s and %s", ErrInvariant, id, prev, where)
		}
		seen[id] = where
		return nil
	}
	for _, c := range shared.AllColors {
		onBoard := e.board.Pieces(c)
		if len(onBoard) != e.placed[c.Index()] {
			return fmt.Errorf("%w: %s placed count %d but %d on board", ErrInvariant, c, e.placed[c.Index()], len(onBoard))
		}
		if n := len(onBoard) + len(e.reserves[c.Index()]); n != len(shared.AllPieceTypes) {
			return fmt.Errorf("%w: %s owns %d pieces", ErrInvariant, c, n)
		}
		for _, pp := range onBoard {
			if err := record(pp.Piece.ID, pp.Position.String()); err != nil {
				return err
			}
		}
		for _, pc := range e.reserves[c.Index()] {
			if pc.Owner != c {
				return fmt.Errorf("%w: %s in %s reserve", ErrInvariant, pc.ID, c)
			}
			if err := record(pc.ID, c.String()+" reserve"); err != nil {
				return err
			}
		}
	}
	if e.phase != PhaseFor(e.placed[0]+e.placed[1]) {
		return fmt.Errorf("%w: phase %s with %d placed", ErrInvariant, e.phase, e.placed[0]+e.placed[1])
	}
	return nil
}
