package main

import "time"

// Simulation and rendering configuration constants used throughout the
// application. These values define the grid size, smoothing rates, injection
// strengths, and paint parameters for the glass step distortion overlay.
const (
	defaultGridSize   = 256
	windowScale       = 3
	defaultTPS        = 60.0
	maxFrameDelta     = 0.1
	pgoRecordDuration = 15 * time.Second

	// Field relaxation and pointer influence.
	defaultRelaxation      = 0.94
	defaultInfluenceRadius = 0.30

	// Pointer smoothing. Rates are exponential per-second constants; larger
	// values converge faster. Visibility fades out much slower than it fades
	// in, which is what makes the overlay linger after the pointer stops.
	positionLerpRate      = 8.0
	directionLerpRate     = 6.0
	visibilityFadeInRate  = 6.0
	visibilityFadeOutRate = 1.5
	speedLerpRate         = 10.0
	speedDecayRate        = 3.0
	injectionHoldTime     = 0.03
	idleThreshold         = 0.5
	speedScale            = 1.2
	flowAccumScale        = 0.9

	// Injection bands around the pointer's x coordinate.
	bandHalfWidth      = 0.045
	trailBandHalfWidth = 0.16
	trailIntensity     = 0.35
	injectStrength     = 0.9
	waveStrength       = 0.25
	dirStrength        = 0.4
	turbStrength       = 0.12

	// Noise basis.
	noiseOctaves   = 4
	noiseFrequency = 6.0
	noiseDrift     = 0.8
	turbFrequency  = 13.0
	waveFrequency  = 22.0
	waveSpeed      = 7.5

	// Derived channels.
	magnitudeGain = 2.0
	alphaTrack    = 0.1

	// Paint stage.
	rampStopCount     = 6
	rampPeriod        = 6.0
	defaultStepCount  = 48
	defaultOpacity    = 0.85
	defaultChroma     = 0.18
	defaultColorSpeed = 0.35
	stepHueStride     = 0.13
	magHueGain        = 0.6
	chromaSpeedGain   = 0.25
	distortGain       = 0.08
	stepBrightnessExp = 1.6
	brightnessFloor   = 0.08
	persistenceFloor  = 0.4
	visibilityEpsilon = 1e-3

	audioSampleRate = 48000
)

// tuning collects the flag-resolved configuration supplied at construction.
// Runtime components read their constants from here instead of the flag
// package so tests can build arbitrary configurations.
type tuning struct {
	gridW, gridH    int
	relaxation      float32
	influenceRadius float64
	stepCount       int
	patternOpacity  float64
	chromaStrength  float64
	colorCycleSpeed float64
}

// defaultTuning returns the built-in configuration used when no flags are set.
func defaultTuning() tuning {
	return tuning{
		gridW:           defaultGridSize,
		gridH:           defaultGridSize,
		relaxation:      defaultRelaxation,
		influenceRadius: defaultInfluenceRadius,
		stepCount:       defaultStepCount,
		patternOpacity:  defaultOpacity,
		chromaStrength:  defaultChroma,
		colorCycleSpeed: defaultColorSpeed,
	}
}

// tuningFromFlags resolves the command-line tuning surface, clamping values
// into usable ranges.
func tuningFromFlags() tuning {
	grid := *gridFlag
	if grid < 32 {
		grid = 32
	}
	return tuning{
		gridW:           grid,
		gridH:           grid,
		relaxation:      float32(clamp(*relaxationFlag, 0.0, 0.9999)),
		influenceRadius: clamp(*radiusFlag, 0.01, 2.0),
		stepCount:       clamp(*stepCountFlag, 4, 512),
		patternOpacity:  clamp(*opacityFlag, 0.0, 1.0),
		chromaStrength:  clamp(*chromaFlag, 0.0, 1.0),
		colorCycleSpeed: *colorSpeedFlag,
	}
}
