// Package game implements the tic-tac-chec rules engine: board model, move
// legality, win detection, the turn state machine and the computer opponent.
package game

import "fmt"

// Engine is the single writer of one game's state.
type Engine struct {
	board       *Board
	turn        Color
	phase       Phase
	reserves    [2][]Piece
	placed      [2]int
	selection   *Selection
	legal       Bitboard
	hasWinner   bool
	winner      Color
	winningLine []Position
	history     MoveHistory
	mode        Mode
	difficulty  Difficulty
	sink        EventSink
	perspective Color
}

// Selection is the piece the player is about to move, with where it starts.
type Selection struct {
	Piece Piece  `json:"piece"`
	From  Origin `json:"from"`
}

// MoveResult reports the outcome of ExecuteMove. Rejections leave the state untouched
// and carry the reason; they are expected input noise, not failures.
type MoveResult struct {
	Accepted bool
	Captured *Piece
	Move     Move
	Event    Event
	Win      *Win
	Reason   error
}

type Option func(*Engine)

// WithEventSink routes feedback events to sink.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithPerspective sets whose win is reported as EventWin. Defaults to white.
func WithPerspective(c Color) Option {
	return func(e *Engine) { e.perspective = c }
}

// NewEngine creates a game ready for white's first placement.
func NewEngine(mode Mode, difficulty Difficulty, opts ...Option) *Engine {
	e := &Engine{sink: discardSink{}, perspective: White}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset(mode, difficulty)
	return e
}

// Reset starts a fresh game: empty board, full reserves, white to move.
func (e *Engine) Reset(mode Mode, difficulty Difficulty) {
	e.board = NewBoard()
	e.turn = White
	e.phase = PhasePlacement
	for _, c := range []Color{White, Black} {
		e.reserves[c.Index()] = NewReserve(c)
		e.placed[c.Index()] = 0
	}
	e.selection = nil
	e.legal = 0
	e.hasWinner = false
	e.winner = White
	e.winningLine = nil
	e.history.Clear()
	e.mode = mode
	e.difficulty = difficulty
}

// SelectPiece records piece as selected and caches its legal destinations, replacing
// any prior selection. The piece must be at origin (or in its owner's reserve);
// otherwise the selection is cleared and ErrUnknownPiece returned. It does not check
// for a finished game.
func (e *Engine) SelectPiece(piece Piece, origin Origin) ([]Position, error) {
	if !e.holds(piece, origin) {
		e.Deselect()
		e.sink.Notify(EventInvalid)
		return nil, fmt.Errorf("%w: %s at %s", ErrUnknownPiece, piece, origin)
	}
	e.selection = &Selection{Piece: piece, From: origin}
	e.legal = legalMask(piece, origin, e.board, e.phase)
	e.sink.Notify(EventSelect)
	return e.legal.Positions(), nil
}

func (e *Engine) holds(piece Piece, origin Origin) bool {
	if from, ok := origin.Position(); ok {
		pc := e.board.PieceAt(from)
		return pc != nil && *pc == piece
	}
	return reserveIndex(e.reserves[piece.Owner.Index()], piece.ID) >= 0
}

// Deselect clears the selection and its destination cache.
func (e *Engine) Deselect() {
	e.selection = nil
	e.legal = 0
}

// ExecuteMove moves the selected piece to dest.
func (e *Engine) ExecuteMove(dest Position) MoveResult {
	if reason := e.rejectReason(dest); reason != nil {
		e.sink.Notify(EventInvalid)
		return MoveResult{Event: EventInvalid, Reason: reason}
	}

	sel := *e.selection
	move := Move{Piece: sel.Piece, From: sel.From, To: dest}

	if victim := e.board.PieceAt(dest); victim != nil {
		captured := *victim
		move.Captured = &captured
	}
	if from, ok := sel.From.Position(); ok {
		e.board.Clear(from)
	} else {
		owner := sel.Piece.Owner.Index()
		e.reserves[owner] = removeFromReserve(e.reserves[owner], sel.Piece.ID)
		e.placed[owner]++
	}
	e.board.Place(dest, sel.Piece)

	if move.Captured != nil {
		victim := move.Captured.Owner.Index()
		e.reserves[victim] = append(e.reserves[victim], *move.Captured)
		e.placed[victim]--
	}
	e.phase = PhaseFor(e.placed[0] + e.placed[1])

	result := MoveResult{Accepted: true, Captured: move.Captured, Move: move, Event: ActionEvent(move)}
	if win, ok := DetectWin(e.board); ok {
		e.hasWinner = true
		e.winner = win.Winner
		e.winningLine = win.Line[:]
		result.Win = &win
	} else {
		e.turn = e.turn.Opposite()
	}
	e.history.Push(move)
	e.Deselect()

	if err := e.checkInvariants(); err != nil {
		panic(err)
	}

	e.sink.Notify(result.Event)
	if result.Win != nil {
		e.sink.Notify(OutcomeEvent(result.Win.Winner, e.perspective))
	}
	return result
}

func (e *Engine) rejectReason(dest Position) error {
	switch {
	case e.selection == nil:
		return ErrNoSelection
	case e.hasWinner:
		return ErrGameOver
	case !e.legal.Has(dest):
		return fmt.Errorf("%w: %s", ErrIllegalDestination, dest)
	default:
		return nil
	}
}

func reserveIndex(reserve []Piece, id string) int {
	for i, pc := range reserve {
		if pc.ID == id {
			return i
		}
	}
	return -1
}

func removeFromReserve(reserve []Piece, id string) []Piece {
	out := make([]Piece, 0, len(reserve))
	for _, pc := range reserve {
		if pc.ID != id {
			out = append(out, pc)
		}
	}
	return out
}
