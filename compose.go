package main

import (
	"math"
	"sync"
)

// paintUniforms is the once-per-frame contract between the frame driver and
// the paint stage. The driver mutates it once per frame; shadeFragment only
// reads it.
type paintUniforms struct {
	Time       float64
	PointerX   float64
	PointerY   float64
	Direction  int
	Speed      float64
	Visibility float64
	FlowOffset float64

	Radius     float64
	StepCount  int
	Opacity    float64
	Chroma     float64
	ColorSpeed float64
	Ramp       *colorRamp
}

// paintUniformsFor assembles the frame's paint uniforms from configuration
// and smoothed pointer state.
func paintUniformsFor(cfg *tuning, ramp *colorRamp, st pointerState, now float64) paintUniforms {
	return paintUniforms{
		Time:       now,
		PointerX:   st.Position.X(),
		PointerY:   st.Position.Y(),
		Direction:  st.Direction,
		Speed:      st.Speed,
		Visibility: st.Visibility,
		FlowOffset: st.FlowOffset,
		Radius:     cfg.influenceRadius,
		StepCount:  cfg.stepCount,
		Opacity:    cfg.patternOpacity,
		Chroma:     cfg.chromaStrength,
		ColorSpeed: cfg.colorCycleSpeed,
		Ramp:       ramp,
	}
}

// shadeFragment is the per-fragment paint function: a pure function of the
// field sample, the uniforms, and the fragment coordinate. Returns
// non-premultiplied color channels plus alpha, all in [0, 1] except where the
// field has blown past its nominal range.
func shadeFragment(u, v float64, fieldDX, fieldDY, fieldMag, fieldAlpha float32, un *paintUniforms) (r, g, b, a float64) {
	if un.Visibility <= visibilityEpsilon {
		return 0, 0, 0, 0
	}

	du := u - un.PointerX
	dv := v - un.PointerY
	radial := 1 - smoothstep(0, un.Radius, math.Hypot(du, dv))
	if radial <= 0 {
		return 0, 0, 0, 0
	}

	// The field displaces the fragment before it is quantized into steps;
	// this is what bends the glass columns.
	su := u + float64(fieldDX)*distortGain
	sx := su * float64(un.StepCount)
	stepIdx := math.Floor(sx)
	intra := sx - stepIdx

	// Positive pointer direction mirrors the intra-step position, reversing
	// the apparent flow.
	if un.Direction > 0 {
		intra = 1 - intra
	}

	bright := math.Pow(intra, stepBrightnessExp)
	if bright < brightnessFloor {
		return 0, 0, 0, 0
	}

	param := un.FlowOffset + un.Time*un.ColorSpeed +
		stepIdx*stepHueStride + float64(fieldMag)*magHueGain + float64(fieldDY)*0.5

	// Chromatic fringing: red and blue resample the ramp offset toward the
	// step edge, spreading wider while the pointer moves fast.
	edge := (1 - intra) * un.Chroma * (1 + un.Speed*chromaSpeedGain)
	r, _, _ = un.Ramp.At(param + edge)
	_, g, _ = un.Ramp.At(param)
	_, _, b = un.Ramp.At(param - edge)

	persistence := persistenceFloor + (1-persistenceFloor)*clamp(float64(fieldAlpha), 0, 1)
	a = bright * un.Visibility * radial * un.Opacity * persistence
	return r, g, b, a
}

// compositor paints the overlay into a reusable premultiplied-RGBA pixel
// buffer at field resolution, fanning rows out across goroutines.
type compositor struct {
	width, height int
	pixels        []byte
}

func newCompositor(width, height int) *compositor {
	return &compositor{
		width:  width,
		height: height,
		pixels: make([]byte, width*height*4),
	}
}

// Render fills the pixel buffer from the field's current texture and the
// frame uniforms, and returns it.
func (c *compositor) Render(f *feedbackField, un *paintUniforms) []byte {
	workers := clamp(c.height/32, 1, 16)
	rowsPer := (c.height + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		y0 := i * rowsPer
		if y0 >= c.height {
			break
		}
		y1 := y0 + rowsPer
		if y1 > c.height {
			y1 = c.height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			c.renderRows(f, un, y0, y1)
		}(y0, y1)
	}
	wg.Wait()
	return c.pixels
}

// renderRows shades the fragments of rows [y0, y1).
func (c *compositor) renderRows(f *feedbackField, un *paintUniforms, y0, y1 int) {
	invW := 1 / float64(c.width)
	invH := 1 / float64(c.height)
	for y := y0; y < y1; y++ {
		v := (float64(y) + 0.5) * invH
		for x := 0; x < c.width; x++ {
			u := (float64(x) + 0.5) * invW
			dx, dy, mag, alpha := f.SampleUV(u, v)
			r, g, b, a := shadeFragment(u, v, dx, dy, mag, alpha, un)
			base := (y*c.width + x) * 4
			a = clamp(a, 0, 1)
			// Ebiten expects premultiplied alpha.
			c.pixels[base] = byte(clamp(r, 0, 1) * a * 255)
			c.pixels[base+1] = byte(clamp(g, 0, 1) * a * 255)
			c.pixels[base+2] = byte(clamp(b, 0, 1) * a * 255)
			c.pixels[base+3] = byte(a * 255)
		}
	}
}
