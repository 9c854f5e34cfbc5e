package main

import "math"

// latticeHash maps an integer lattice point to a deterministic value in [0, 1).
func latticeHash(ix, iy int32) float64 {
	h := uint32(ix)*374761393 + uint32(iy)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h) / float64(math.MaxUint32)
}

// valueNoise returns coherent value noise in [0, 1) with smoothstep-blended
// lattice interpolation.
func valueNoise(x, y float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	ix := int32(fx)
	iy := int32(fy)
	tx := x - fx
	ty := y - fy
	tx = tx * tx * (3 - 2*tx)
	ty = ty * ty * (3 - 2*ty)

	v00 := latticeHash(ix, iy)
	v10 := latticeHash(ix+1, iy)
	v01 := latticeHash(ix, iy+1)
	v11 := latticeHash(ix+1, iy+1)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

// fbm sums octaves of value noise, halving amplitude and doubling frequency
// per octave, normalized back into [0, 1).
func fbm(x, y float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += valueNoise(x*freq, y*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}
