package session

import (
	"time"

	"tic_tac_chec/internal/game"
)

type Config struct {
	Mode        game.Mode
	Difficulty  game.Difficulty
	Perspective game.Color
	AIDelayMin  time.Duration
	AIDelayMax  time.Duration
	ForceAfter  time.Duration
	AutoPlay    bool
}

func DefaultConfig() Config {
	return Config{
		Mode:        game.ModeAI,
		Difficulty:  game.Medium,
		Perspective: game.White,
		AIDelayMin:  500 * time.Millisecond,
		AIDelayMax:  1000 * time.Millisecond,
		ForceAfter:  10 * time.Second,
		AutoPlay:    true,
	}
}

// ComputerColor is the side the AI plays in AI mode.
func (c Config) ComputerColor() game.Color { return c.Perspective.Opposite() }

func (c Config) normalized() Config {
	if c.AIDelayMin < 0 {
		c.AIDelayMin = 0
	}
	if c.AIDelayMax < c.AIDelayMin {
		c.AIDelayMax = c.AIDelayMin
	}
	if c.ForceAfter <= 0 {
		c.ForceAfter = DefaultConfig().ForceAfter
	}
	return c
}
