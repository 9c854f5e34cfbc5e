package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// pointerSweep synthesizes pointer samples along a Lissajous path. Used for
// PGO capture runs so profiles cover a moving, injecting field instead of a
// decayed-to-rest one.
type pointerSweep struct {
	elapsed float64
	freqU   float64
	freqV   float64
	phase   float64
}

func newPointerSweep() *pointerSweep {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &pointerSweep{
		freqU: 0.18 + r.Float64()*0.1,
		freqV: 0.29 + r.Float64()*0.1,
		phase: r.Float64() * 2 * math.Pi,
	}
}

// Advance moves the sweep by dt and returns the next synthetic UV sample.
func (s *pointerSweep) Advance(dt float64) mgl64.Vec2 {
	s.elapsed += dt
	t := s.elapsed * 2 * math.Pi
	return mgl64.Vec2{
		0.5 + 0.35*math.Sin(t*s.freqU),
		0.5 + 0.35*math.Sin(t*s.freqV+s.phase),
	}
}
