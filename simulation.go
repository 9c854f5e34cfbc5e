package main

import "math"

// simUniforms carries the per-step scalars shared by every cell update. The
// frame driver fills one of these per frame from the smoothed pointer state.
type simUniforms struct {
	PointerX   float64
	PointerY   float64
	Speed      float64
	DirBlend   float64
	Time       float64
	Radius     float64
	Relaxation float32
}

// simUniformsFor derives the step uniforms from configuration and the
// current smoothed pointer state.
func simUniformsFor(cfg *tuning, st pointerState, now float64) simUniforms {
	return simUniforms{
		PointerX:   st.Position.X(),
		PointerY:   st.Position.Y(),
		Speed:      st.Speed,
		DirBlend:   st.DirBlend,
		Time:       now,
		Radius:     cfg.influenceRadius,
		Relaxation: cfg.relaxation,
	}
}

// cellUpdate advances a single field cell. It is a pure function of the
// previous cell state, the cell's normalized coordinate, and the step
// uniforms, so the CPU and OpenCL paths can share one definition of the
// simulation and tests can drive it without a graphics context.
//
// Displacement accumulates then relaxes; there is no clamp. Sustained fast
// input can push the field past the nominal working range, which reads as an
// intentional visual blow-up rather than an error.
func cellUpdate(prevDX, prevDY, prevAlpha float32, u, v float64, un *simUniforms) (dx, dy, mag, alpha float32) {
	du := u - un.PointerX
	dv := v - un.PointerY
	dist := math.Hypot(du, dv)
	influence := 1 - smoothstep(0, un.Radius, dist)

	var cx, cy float64
	ax := math.Abs(du)

	// Primary injection band: a thin vertical strip on the pointer's x
	// coordinate fed by fractal noise plus a travelling wave.
	if ax < bandHalfWidth && influence > 0 {
		bandT := 1 - smoothstep(0, bandHalfWidth, ax)
		n := fbm(u*noiseFrequency, v*noiseFrequency+un.Time*noiseDrift, noiseOctaves)
		inj := (n*2 - 1) * influence * un.Speed * injectStrength * bandT
		wave := math.Sin(v*waveFrequency-un.Time*waveSpeed) * waveStrength * influence * un.Speed * bandT
		cx += inj * 0.4
		cy += inj + wave
	}

	// Wider trailing band at reduced intensity.
	if ax < trailBandHalfWidth && influence > 0 {
		trailT := 1 - smoothstep(0, trailBandHalfWidth, ax)
		n := fbm(u*noiseFrequency+5.1, v*noiseFrequency-un.Time*noiseDrift, noiseOctaves)
		cy += (n*2 - 1) * influence * un.Speed * injectStrength * trailT * trailIntensity
	}

	// Velocity-direction push and independent turbulence, both starved as
	// the smoothed speed relaxes to zero so the field always comes to rest.
	if influence > 0 && un.Speed > 0 {
		cx += un.DirBlend * un.Speed * dirStrength * influence
		turb := fbm(u*turbFrequency-un.Time*0.7, v*turbFrequency+un.Time*0.45, noiseOctaves)
		cx += (turb*2 - 1) * turbStrength * un.Speed * influence
		cy += (fbm(u*turbFrequency+7.3, v*turbFrequency-un.Time*0.6, noiseOctaves)*2 - 1) * turbStrength * un.Speed * influence
	}

	relax := float64(un.Relaxation)
	ndx := (float64(prevDX) + cx) * relax
	ndy := (float64(prevDY) + cy) * relax

	dx = float32(ndx)
	dy = float32(ndy)
	mag = float32(math.Hypot(ndx, ndy) * magnitudeGain)
	alpha = prevAlpha + (float32(influence)-prevAlpha)*alphaTrack
	return dx, dy, mag, alpha
}

// processFieldRows advances rows [y0, y1) of the field, reading the current
// buffer and writing the next buffer. Callers own the subsequent Swap.
func processFieldRows(f *feedbackField, y0, y1 int, un *simUniforms) {
	invW := 1 / float64(f.width)
	invH := 1 / float64(f.height)
	for y := y0; y < y1; y++ {
		v := (float64(y) + 0.5) * invH
		base := y * f.width * cellStride
		for x := 0; x < f.width; x++ {
			u := (float64(x) + 0.5) * invW
			i := base + x*cellStride
			dx, dy, mag, alpha := cellUpdate(
				f.curr[i+cellDX], f.curr[i+cellDY], f.curr[i+cellAlpha], u, v, un)
			f.next[i+cellDX] = dx
			f.next[i+cellDY] = dy
			f.next[i+cellMag] = mag
			f.next[i+cellAlpha] = alpha
		}
	}
}

// stepField executes one simulation step on the CPU path and swaps buffers.
// With a nil pool the step runs single-threaded, which tests rely on.
func stepField(f *feedbackField, pool *simWorkerPool, un *simUniforms) {
	if pool != nil {
		pool.Step(f, un)
	} else {
		processFieldRows(f, 0, f.height, un)
	}
	f.Swap()
}
