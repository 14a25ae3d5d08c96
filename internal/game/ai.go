package game

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// ScoredMove is a candidate with its jittered evaluation.
type ScoredMove struct {
	Move  Move
	Score float64
}

// AI picks moves with a greedy one-ply evaluation. It is not safe for concurrent use
// because it owns its random source.
type AI struct {
	rng *rand.Rand
}

// NewAI returns an AI drawing its jitter and tie-breaking from rng. A nil rng uses a
// randomly seeded generator.
func NewAI(rng *rand.Rand) *AI {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &AI{rng: rng}
}

// Jitter is the half-width of the uniform noise added to each score.
func (d Difficulty) Jitter() float64 {
	switch d {
	case Easy:
		return 25
	case Hard:
		return 2.5
	default:
		return 10
	}
}

// Candidates lists every legal move for player: placements from reserve while the
// game is in placement, and moves of player's pieces already on the board.
func Candidates(board *Board, player Color, reserve []Piece, phase Phase) []Move {
	var moves []Move
	if phase == PhasePlacement && len(reserve) > 0 {
		empty := board.EmptyCells()
		for _, pc := range reserve {
			for _, to := range empty {
				moves = append(moves, Move{Piece: pc, From: FromReserve(), To: to})
			}
		}
	}
	for _, pp := range board.Pieces(player) {
		origin := OnBoard(pp.Position)
		for _, to := range LegalDestinations(pp.Piece, origin, board, PhaseMovement) {
			moves = append(moves, Move{Piece: pp.Piece, From: origin, To: to})
		}
	}
	return moves
}

// Simulate applies m to a copy of board. Reserve bookkeeping is ignored.
func Simulate(board *Board, m Move) *Board {
	next := board.Clone()
	if from, ok := m.From.Position(); ok {
		next.Clear(from)
	}
	next.Place(m.To, m.Piece)
	return next
}

// ChooseMove returns the move player should make, or false when player has none.
// A move that completes a line for player is always returned when one exists.
func (a *AI) ChooseMove(board *Board, player Color, reserve []Piece, phase Phase, difficulty Difficulty) (Move, bool) {
	candidates := Candidates(board, player, reserve, phase)
	if len(candidates) == 0 {
		return Move{}, false
	}
	if win, ok := WinningMove(board, player, candidates); ok {
		return win, true
	}
	ranked := a.Rank(board, player, candidates, difficulty)
	return ranked[a.pickIndex(len(ranked), difficulty)].Move, true
}

// WinningMove returns the first candidate that gives player four in a line.
func WinningMove(board *Board, player Color, candidates []Move) (Move, bool) {
	for _, m := range candidates {
		if _, ok := DetectWinFor(Simulate(board, m), player); ok {
			return m, true
		}
	}
	return Move{}, false
}

// Rank scores every candidate with difficulty jitter and sorts best first.
func (a *AI) Rank(board *Board, player Color, candidates []Move, difficulty Difficulty) []ScoredMove {
	scale := difficulty.Jitter()
	out := make([]ScoredMove, len(candidates))
	for i, m := range candidates {
		score := float64(Evaluate(Simulate(board, m), player))
		score += (a.rng.Float64()*2 - 1) * scale
		out[i] = ScoredMove{Move: m, Score: score}
	}
	slices.SortStableFunc(out, func(x, y ScoredMove) int {
		return cmp.Compare(y.Score, x.Score)
	})
	return out
}

func (a *AI) pickIndex(n int, difficulty Difficulty) int {
	switch difficulty {
	case Easy:
		if a.rng.Float64() < 0.4 {
			return a.rng.IntN(min(3, n))
		}
	case Medium:
		if a.rng.Float64() < 0.2 && n > 1 {
			return 1
		}
	}
	return 0
}
