package game

import "tic_tac_chec/internal/shared"

// LegalDestinations returns the cells piece may go to from origin, in row-major order.
// A reserve origin may target any empty cell. A board origin follows the piece's
// movement rules in either phase.
func LegalDestinations(piece Piece, origin Origin, board *Board, phase Phase) []Position {
	return legalMask(piece, origin, board, phase).Positions()
}

func legalMask(piece Piece, origin Origin, board *Board, _ Phase) Bitboard {
	from, onBoard := origin.Position()
	if !onBoard {
		return board.emptyMask()
	}
	if !from.InBounds() {
		return 0
	}
	switch piece.Type {
	case Rook:
		return slideMoves(piece, from, board, shared.CardinalOffsets)
	case Bishop:
		return slideMoves(piece, from, board, shared.DiagonalOffsets)
	case Knight:
		return knightMoves(piece, from, board)
	case Pawn:
		return pawnMoves(piece, from, board)
	default:
		return 0
	}
}

func slideMoves(piece Piece, from Position, board *Board, dirs []shared.Offset) Bitboard {
	var moves Bitboard
	for _, d := range dirs {
		for to := from.Add(d); to.InBounds(); to = to.Add(d) {
			occupant := board.PieceAt(to)
			if occupant == nil {
				moves = moves.Add(to)
				continue
			}
			if occupant.Owner != piece.Owner {
				moves = moves.Add(to)
			}
			break
		}
	}
	return moves
}

func knightMoves(piece Piece, from Position, board *Board) Bitboard {
	var moves Bitboard
	for _, d := range shared.KnightOffsets {
		to := from.Add(d)
		if !to.InBounds() {
			continue
		}
		if occupant := board.PieceAt(to); occupant == nil || occupant.Owner != piece.Owner {
			moves = moves.Add(to)
		}
	}
	return moves
}

func pawnMoves(piece Piece, from Position, board *Board) Bitboard {
	var moves Bitboard
	dr := piece.Owner.Forward()
	if to := from.Add(shared.Offset{DR: dr}); to.InBounds() && board.IsEmpty(to) {
		moves = moves.Add(to)
	}
	for _, dc := range []int{-1, 1} {
		to := from.Add(shared.Offset{DR: dr, DC: dc})
		if !to.InBounds() {
			continue
		}
		if occupant := board.PieceAt(to); occupant != nil && occupant.Owner != piece.Owner {
			moves = moves.Add(to)
		}
	}
	return moves
}
