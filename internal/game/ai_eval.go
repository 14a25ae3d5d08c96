package game

// Line-control weights indexed by piece count in an uncontested line.
var (
	ownLineScore      = [5]int{0, 3, 20, 200, 10000}
	opponentLineScore = [5]int{0, -2, -15, -150, -10000}
)

const centerScore = 5

var centerCells = []Position{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 1}, {Row: 2, Col: 2}}

// Evaluate scores board from player's point of view. Lines holding pieces of both
// sides score nothing; the four centre cells add or subtract a small bonus.
func Evaluate(board *Board, player Color) int {
	score := 0
	for _, line := range lines {
		own, opp := 0, 0
		for _, p := range line {
			pc := board.PieceAt(p)
			switch {
			case pc == nil:
			case pc.Owner == player:
				own++
			default:
				opp++
			}
		}
		switch {
		case own > 0 && opp > 0:
		case own > 0:
			score += ownLineScore[own]
		case opp > 0:
			score += opponentLineScore[opp]
		}
	}
	for _, p := range centerCells {
		pc := board.PieceAt(p)
		if pc == nil {
			continue
		}
		if pc.Owner == player {
			score += centerScore
		} else {
			score -= centerScore
		}
	}
	return score
}
