package game

import (
	"math/rand/v2"
	"time"
)

// Mulberry32 is a small seedable generator. It implements rand.Source so the AI can be
// replayed exactly from a seed.
type Mulberry32 struct {
	state uint32
}

func NewMulberry32(seed uint32) *Mulberry32 { return &Mulberry32{state: seed} }

func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return t ^ t>>14
}

func (m *Mulberry32) Uint64() uint64 {
	hi := uint64(m.Uint32())
	return hi<<32 | uint64(m.Uint32())
}

// NewSeededRand returns a generator whose sequence depends only on seed.
func NewSeededRand(seed uint32) *rand.Rand {
	return rand.New(NewMulberry32(seed))
}

// DateSeed encodes t's calendar date as YYYYMMDD in loc.
func DateSeed(t time.Time, loc *time.Location) uint32 {
	if loc != nil {
		t = t.In(loc)
	}
	return uint32(t.Year()*10000 + int(t.Month())*100 + t.Day())
}
