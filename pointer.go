package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// pointerState is the smoothed view of pointer input consumed once per frame
// by the simulation step and the paint stage.
type pointerState struct {
	Position   mgl64.Vec2
	Velocity   mgl64.Vec2
	Speed      float64
	Direction  int
	DirBlend   float64
	FlowOffset float64
	Visibility float64
	Idle       float64
}

// pointerTracker folds raw pointer samples into exponentially smoothed state.
// Samples arrive at event rate; Advance runs once per displayed frame. All
// fields are plain values because every read happens synchronously from the
// frame callback.
type pointerTracker struct {
	hasSample bool

	target     mgl64.Vec2
	last       mgl64.Vec2
	smoothed   mgl64.Vec2
	velocity   mgl64.Vec2
	rawVel     mgl64.Vec2
	speed      float64
	targetSpd  float64
	direction  int
	dirBlend   float64
	flowOffset float64

	idle       float64
	visibility float64
	targetVis  float64
}

func newPointerTracker() *pointerTracker {
	return &pointerTracker{}
}

// Sample folds one raw pointer position into the tracker. uv is normalized to
// [0,1] per axis; elapsed is the duration since the previous sample. Malformed
// coordinates are ignored rather than treated as errors.
func (t *pointerTracker) Sample(uv mgl64.Vec2, elapsed float64) {
	if math.IsNaN(uv.X()) || math.IsNaN(uv.Y()) || math.IsInf(uv.X(), 0) || math.IsInf(uv.Y(), 0) {
		return
	}
	t.idle = 0
	t.targetVis = 1
	if !t.hasSample {
		// First contact snaps everything so the overlay does not sweep in
		// from a stale position.
		t.hasSample = true
		t.target = uv
		t.last = uv
		t.smoothed = uv
		return
	}
	if elapsed <= 0 {
		elapsed = 1.0 / defaultTPS
	}
	delta := uv.Sub(t.last)
	t.last = uv
	t.target = uv
	t.rawVel = delta.Mul(1 / elapsed)
	t.targetSpd = delta.Len() / elapsed * speedScale
	// Ties on the x axis keep the previous direction to avoid flicker.
	if delta.X() > 0 {
		t.direction = 1
	} else if delta.X() < 0 {
		t.direction = -1
	}
}

// Advance moves the smoothed state toward its targets by dt. It runs exactly
// once per displayed frame regardless of how many samples arrived.
func (t *pointerTracker) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}

	t.idle += dt
	if t.idle > injectionHoldTime {
		// A couple of frames with no samples means the pointer is at rest.
		// The drive is cut outright rather than tapered: every speed-gated
		// injection term must reach exactly zero so the field strictly
		// relaxes from here on.
		t.targetSpd = 0
		t.rawVel = mgl64.Vec2{}
		t.speed = 0
	}

	k := expBlend(positionLerpRate, dt)
	t.smoothed = mgl64.Vec2{
		lerp(t.smoothed.X(), t.target.X(), k),
		lerp(t.smoothed.Y(), t.target.Y(), k),
	}
	t.velocity = mgl64.Vec2{
		lerp(t.velocity.X(), t.rawVel.X(), k),
		lerp(t.velocity.Y(), t.rawVel.Y(), k),
	}

	sk := expBlend(speedLerpRate, dt)
	t.speed = lerp(t.speed, t.targetSpd, sk)
	// Within the hold window the target speed tapers so a pointer that
	// stalls for a single frame does not stutter.
	t.targetSpd *= math.Exp(-speedDecayRate * dt)
	t.rawVel = t.rawVel.Mul(math.Exp(-speedDecayRate * dt))

	dk := expBlend(directionLerpRate, dt)
	t.dirBlend = lerp(t.dirBlend, float64(t.direction), dk)

	// Flow offset accumulates monotonically with observed speed; it never
	// resets and only wraps via modulo inside the paint stage.
	t.flowOffset += t.speed * flowAccumScale * dt

	if t.idle > idleThreshold {
		t.targetVis = 0
	}
	fade := visibilityFadeInRate
	if t.targetVis < t.visibility {
		fade = visibilityFadeOutRate
	}
	t.visibility = lerp(t.visibility, t.targetVis, expBlend(fade, dt))
}

// State returns the smoothed pointer state for this frame.
func (t *pointerTracker) State() pointerState {
	return pointerState{
		Position:   t.smoothed,
		Velocity:   t.velocity,
		Speed:      t.speed,
		Direction:  t.direction,
		DirBlend:   t.dirBlend,
		FlowOffset: t.flowOffset,
		Visibility: t.visibility,
		Idle:       t.idle,
	}
}

// TargetVisibility exposes the un-smoothed visibility goal.
func (t *pointerTracker) TargetVisibility() float64 { return t.targetVis }
