package session

import "errors"

var (
	ErrNotYourTurn = errors.New("waiting for the computer to move")
	ErrNoMoves     = errors.New("side to move has no legal moves")
	ErrClosed      = errors.New("session closed")
)
