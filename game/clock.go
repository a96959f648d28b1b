package game

import (
	"time"

	"github.com/notnil/chess"
)

// Clock holds the time each side has left. Only the side to move is
// charged, and never below zero.
type Clock struct {
	White time.Duration
	Black time.Duration
}

func NewClock(each time.Duration) Clock {
	return Clock{White: each, Black: each}
}

func (c Clock) Remaining(side chess.Color) time.Duration {
	if side == chess.White {
		return c.White
	}
	return c.Black
}

// Running is what side would have left after elapsed, without charging it.
func (c Clock) Running(side chess.Color, elapsed time.Duration) time.Duration {
	left := c.Remaining(side) - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Charge takes elapsed off side's clock and returns what is left.
func (c *Clock) Charge(side chess.Color, elapsed time.Duration) time.Duration {
	left := c.Running(side, elapsed)
	if side == chess.White {
		c.White = left
	} else {
		c.Black = left
	}
	return left
}
