package main

import (
	"math"
	"testing"
)

func TestRampWrapsExactlyEverySixUnits(t *testing.T) {
	r := defaultColorRamp()
	for _, base := range []float64{0, 0.5, 1.7, 2.25, 3.9, 5.999, 17.3} {
		r0, g0, b0 := r.At(base)
		r6, g6, b6 := r.At(base + rampPeriod)
		if math.Abs(r0-r6) > 1e-9 || math.Abs(g0-g6) > 1e-9 || math.Abs(b0-b6) > 1e-9 {
			t.Fatalf("ramp not periodic at %v: (%v,%v,%v) vs (%v,%v,%v)",
				base, r0, g0, b0, r6, g6, b6)
		}
	}
}

func TestRampHandlesNegativeParameters(t *testing.T) {
	r := defaultColorRamp()
	r0, g0, b0 := r.At(-2.5)
	r1, g1, b1 := r.At(-2.5 + rampPeriod)
	if math.Abs(r0-r1) > 1e-9 || math.Abs(g0-g1) > 1e-9 || math.Abs(b0-b1) > 1e-9 {
		t.Fatal("negative parameters break ramp periodicity")
	}
}

func TestRampBlendsBetweenStops(t *testing.T) {
	r, err := newColorRamp([]string{"#000000", "#ffffff", "#000000", "#ffffff", "#000000", "#ffffff"})
	if err != nil {
		t.Fatalf("building test ramp: %v", err)
	}
	red, green, blue := r.At(0.5)
	for _, c := range []float64{red, green, blue} {
		if math.Abs(c-0.5) > 0.01 {
			t.Fatalf("midpoint blend = (%v,%v,%v), want 0.5 per channel", red, green, blue)
		}
	}
	// The last stop blends back into the first.
	red, _, _ = r.At(5.5)
	if math.Abs(red-0.5) > 0.01 {
		t.Fatalf("wrap-around blend red = %v, want 0.5", red)
	}
}

func TestParseRampFlagDefaults(t *testing.T) {
	r, err := parseRampFlag("")
	if err != nil {
		t.Fatalf("empty ramp flag should use the default palette: %v", err)
	}
	if r == nil {
		t.Fatal("nil default ramp")
	}
}

func TestParseRampFlagRejectsWrongCount(t *testing.T) {
	if _, err := parseRampFlag("#fff,#000"); err == nil {
		t.Fatal("two-stop ramp accepted, want error")
	}
}

func TestParseRampFlagRejectsBadColor(t *testing.T) {
	if _, err := parseRampFlag("red,green,blue,cyan,magenta,not-a-color"); err == nil {
		t.Fatal("invalid CSS color accepted, want error")
	}
}

func TestParseRampFlagAcceptsNamedColors(t *testing.T) {
	r, err := parseRampFlag("red, green, blue, cyan, magenta, yellow")
	if err != nil {
		t.Fatalf("named CSS colors rejected: %v", err)
	}
	red, _, _ := r.At(0)
	if red < 0.99 {
		t.Fatalf("first stop red channel = %v, want 1 for 'red'", red)
	}
}
