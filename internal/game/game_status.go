package game

import "tic_tac_chec/internal/shared"

// Win describes a completed line.
type Win struct {
	Winner Color       `json:"winner"`
	Line   [4]Position `json:"line"`
}

var (
	lines     = buildLines()
	lineMasks = buildLineMasks(lines)
)

func buildLineMasks(ls [][4]Position) []Bitboard {
	out := make([]Bitboard, len(ls))
	for i, line := range ls {
		out[i] = BitboardOf(line[:]...)
	}
	return out
}

// buildLines orders the 10 lines as rows, columns, main diagonal, anti-diagonal.
func buildLines() [][4]Position {
	out := make([][4]Position, 0, 2*shared.BoardSize+2)
	for row := 0; row < shared.BoardSize; row++ {
		var line [4]Position
		for col := range line {
			line[col] = Position{Row: row, Col: col}
		}
		out = append(out, line)
	}
	for col := 0; col < shared.BoardSize; col++ {
		var line [4]Position
		for row := range line {
			line[row] = Position{Row: row, Col: col}
		}
		out = append(out, line)
	}
	var diag, anti [4]Position
	for i := 0; i < shared.BoardSize; i++ {
		diag[i] = Position{Row: i, Col: i}
		anti[i] = Position{Row: i, Col: shared.BoardSize - 1 - i}
	}
	return append(out, diag, anti)
}

// Lines returns the 10 winning alignments in detection order.
func Lines() [][4]Position {
	return append([][4]Position(nil), lines...)
}

// DetectWin reports the first line fully held by one player.
func DetectWin(board *Board) (Win, bool) {
	occ := [2]Bitboard{board.Occupancy(White), board.Occupancy(Black)}
	for i, mask := range lineMasks {
		for _, c := range shared.AllColors {
			if occ[c.Index()]&mask == mask {
				return Win{Winner: c, Line: lines[i]}, true
			}
		}
	}
	return Win{}, false
}

// DetectWinFor is DetectWin restricted to lines held by player.
func DetectWinFor(board *Board, player Color) (Win, bool) {
	occ := board.Occupancy(player)
	for i, mask := range lineMasks {
		if occ&mask == mask {
			return Win{Winner: player, Line: lines[i]}, true
		}
	}
	return Win{}, false
}
