package main

import (
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Game owns the full frame pipeline: pointer tracking, the feedback field,
// the compositor, and the optional GPU solver and audio output.
type Game struct {
	cfg     tuning
	tracker *pointerTracker
	field   *feedbackField
	pool    *simWorkerPool
	gpu     *openCLFieldSolver
	ramp    *colorRamp
	comp    *compositor

	uniforms paintUniforms

	elapsed         float64
	lastUpdate      time.Time
	lastSimDuration time.Duration

	lastCursorX int
	lastCursorY int
	hasCursor   bool
	sinceSample float64
	touchIDs    []ebiten.TouchID

	sweep       *pointerSweep
	sweepUntil  time.Time
	stopProfile func()

	audioCtx    *audio.Context
	audioStream *fieldAudioStream
	audioPlayer *audio.Player
}

// newGame constructs a fully initialized Game on the CPU solver path.
func newGame(cfg tuning, ramp *colorRamp) *Game {
	return &Game{
		cfg:     cfg,
		tracker: newPointerTracker(),
		field:   newFeedbackField(cfg.gridW, cfg.gridH),
		pool:    newSimWorkerPool(cfg.gridH, 0),
		ramp:    ramp,
		comp:    newCompositor(cfg.gridW, cfg.gridH),
	}
}

// Update advances the pipeline once per displayed frame: sample input,
// smooth pointer state, step the field unconditionally (stepping while idle
// is what produces decay), then refresh the paint uniforms.
func (g *Game) Update() error {
	now := time.Now()
	dt := 1.0 / defaultTPS
	if !g.lastUpdate.IsZero() {
		dt = now.Sub(g.lastUpdate).Seconds()
	}
	if dt <= 0 || dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	g.lastUpdate = now
	g.elapsed += dt
	g.sinceSample += dt

	if g.sweep != nil {
		uv := g.sweep.Advance(dt)
		g.tracker.Sample(uv, dt)
		if now.After(g.sweepUntil) {
			g.sweep = nil
			if g.stopProfile != nil {
				g.stopProfile()
				g.stopProfile = nil
				log.Printf("PGO recording finished")
			}
		}
	} else {
		g.samplePointerInput()
	}

	g.tracker.Advance(dt)
	st := g.tracker.State()

	un := simUniformsFor(&g.cfg, st, g.elapsed)
	simStart := time.Now()
	if g.gpu != nil {
		if err := g.gpu.Step(g.field, &un); err != nil {
			// The effect degrades to the CPU path rather than taking the
			// whole frame loop down.
			log.Printf("OpenCL step failed, falling back to CPU: %v", err)
			g.gpu.Close()
			g.gpu = nil
			stepField(g.field, g.pool, &un)
		}
	} else {
		stepField(g.field, g.pool, &un)
	}
	g.lastSimDuration = time.Since(simStart)

	g.uniforms = paintUniformsFor(&g.cfg, g.ramp, st, g.elapsed)

	if g.audioStream != nil {
		_, dy, _, _ := g.field.SampleUV(st.Position.X(), st.Position.Y())
		g.audioStream.SetSample(dy * audioFieldGain)
	}

	return nil
}

// samplePointerInput feeds the tracker from the cursor or the first active
// touch. A stationary cursor produces no sample, which is what lets the idle
// accumulator run and fade the overlay out.
func (g *Game) samplePointerInput() {
	px, py := ebiten.CursorPosition()

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		px, py = ebiten.TouchPosition(g.touchIDs[0])
	}

	if px < 0 || py < 0 || px >= g.cfg.gridW || py >= g.cfg.gridH {
		return
	}
	if g.hasCursor && px == g.lastCursorX && py == g.lastCursorY {
		return
	}
	g.lastCursorX = px
	g.lastCursorY = py
	g.hasCursor = true

	uv := mgl64.Vec2{
		(float64(px) + 0.5) / float64(g.cfg.gridW),
		(float64(py) + 0.5) / float64(g.cfg.gridH),
	}
	g.tracker.Sample(uv, g.sinceSample)
	g.sinceSample = 0
}

// startSweep begins the scripted pointer sweep used for PGO capture.
func (g *Game) startSweep(d time.Duration, stop func()) {
	g.sweep = newPointerSweep()
	g.sweepUntil = time.Now().Add(d)
	g.stopProfile = stop
	log.Printf("Sweeping pointer on a %.2f x %.2f Hz Lissajous path for %v",
		g.sweep.freqU, g.sweep.freqV, d)
}

// enableAudio wires the field sonification stream into an Ebiten player.
func (g *Game) enableAudio() {
	ctx := audio.NewContext(audioSampleRate)
	g.audioCtx = ctx
	stream := newFieldAudioStream()
	g.audioStream = stream
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		log.Printf("Audio player creation failed: %v", err)
		g.audioStream = nil
		return
	}
	g.audioPlayer = player
	g.audioPlayer.Play()
}
