package game

import "errors"

var (
	ErrNoSelection        = errors.New("no piece selected")
	ErrGameOver           = errors.New("game is over")
	ErrIllegalDestination = errors.New("illegal destination")
	ErrNotYourPiece       = errors.New("piece belongs to the other player")
	ErrUnknownPiece       = errors.New("piece is not where it was claimed to be")
	ErrInvariant          = errors.New("engine invariant violated")
)
