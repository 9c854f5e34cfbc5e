package main

import (
	"fmt"
	"math"
	"strings"

	css "github.com/mazznoer/csscolorparser"
)

// colorRamp is a cyclic six-stop color ramp. The index parameter wraps with
// period 6: stop i owns [i, i+1) and blends into stop (i+1) mod 6, so adding
// exactly 6.0 to the parameter reproduces the same color.
type colorRamp struct {
	stops [rampStopCount][3]float64
}

// newColorRamp builds a ramp from exactly six CSS color strings.
func newColorRamp(specs []string) (*colorRamp, error) {
	if len(specs) != rampStopCount {
		return nil, fmt.Errorf("ramp needs exactly %d colors, got %d", rampStopCount, len(specs))
	}
	r := &colorRamp{}
	for i, s := range specs {
		c, err := css.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("parsing ramp stop %d %q: %w", i, s, err)
		}
		r.stops[i] = [3]float64{c.R, c.G, c.B}
	}
	return r, nil
}

// parseRampFlag interprets the -ramp value, falling back to the default
// palette for an empty string.
func parseRampFlag(value string) (*colorRamp, error) {
	if value == "" {
		return defaultColorRamp(), nil
	}
	return newColorRamp(strings.Split(value, ","))
}

// defaultColorRamp returns the built-in palette. The stops are known-good
// hex strings, so parse failures cannot happen here.
func defaultColorRamp() *colorRamp {
	r, err := newColorRamp([]string{
		"#1b0f3b", "#3c1e8f", "#1f8fa8", "#3fd98f", "#e8c15a", "#b03a8c",
	})
	if err != nil {
		panic(err)
	}
	return r
}

// At evaluates the ramp at parameter t, wrapping modulo the ramp period.
func (r *colorRamp) At(t float64) (red, green, blue float64) {
	t = math.Mod(t, rampPeriod)
	if t < 0 {
		t += rampPeriod
	}
	i := int(t)
	if i >= rampStopCount {
		i = rampStopCount - 1
	}
	frac := t - float64(i)
	a := r.stops[i]
	b := r.stops[(i+1)%rampStopCount]
	return lerp(a[0], b[0], frac), lerp(a[1], b[1], frac), lerp(a[2], b[2], frac)
}
