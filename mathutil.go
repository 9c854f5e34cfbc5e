package main

import (
	"math"

	"golang.org/x/exp/constraints"
)

// clamp constrains v to lie within the inclusive [lo, hi] range.
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp interpolates linearly between a and b by t.
func lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// smoothstep is the Hermite step used by the influence and band falloffs.
// Returns 0 below edge0, 1 above edge1.
func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// expBlend converts a per-second exponential rate into a frame blend factor,
// so smoothing converges at the same speed regardless of frame rate.
func expBlend(rate, dt float64) float64 {
	return 1 - math.Exp(-rate*dt)
}
