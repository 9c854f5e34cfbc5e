package main

import "flag"

// Command-line flags that control the tunable surface of the distortion
// overlay. Each flag overrides one of the default constants in config.go.
var (
	// gridFlag sets the simulation grid resolution (cells per axis).
	gridFlag = flag.Int("grid", defaultGridSize, "simulation grid resolution per axis")

	// relaxationFlag controls per-step multiplicative decay of the field.
	relaxationFlag = flag.Float64("relaxation", defaultRelaxation, "per-step field relaxation factor (0-1)")

	// radiusFlag sets the pointer influence radius in normalized UV units.
	radiusFlag = flag.Float64("radius", defaultInfluenceRadius, "pointer influence radius in UV units")

	// stepCountFlag controls how many vertical glass steps divide the surface.
	stepCountFlag = flag.Int("step-count", defaultStepCount, "number of vertical glass steps")

	// opacityFlag scales the overall pattern alpha.
	opacityFlag = flag.Float64("opacity", defaultOpacity, "pattern opacity (0-1)")

	// chromaFlag adjusts the per-step-edge chromatic fringing strength.
	chromaFlag = flag.Float64("chroma", defaultChroma, "chromatic aberration strength (0-1)")

	// colorSpeedFlag controls how fast the oil-spill ramp cycles over time.
	colorSpeedFlag = flag.Float64("color-speed", defaultColorSpeed, "color ramp cycling speed")

	// rampFlag replaces the built-in six-stop palette.
	rampFlag = flag.String("ramp", "", "six comma-separated CSS colors for the ramp stops")

	// useOpenCLFlag selects the OpenCL solver when the binary carries it.
	useOpenCLFlag = flag.Bool("opencl", true, "use the OpenCL solver when available (requires -tags opencl build)")

	// enableAudioFlag toggles sonification of the field under the pointer.
	enableAudioFlag = flag.Bool("enable-audio", false, "enable experimental audio output from the field under the pointer")

	// recordDefaultPGO sweeps the pointer automatically for 15s while capturing default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "run a scripted pointer sweep for 15s while capturing default.pgo")

	// debugFlag enables the FPS and simulation overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and simulation timing overlay")
)
