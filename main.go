package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
)

func main() {
	flag.Parse()

	cfg := tuningFromFlags()
	ramp, err := parseRampFlag(*rampFlag)
	if err != nil {
		log.Fatalf("Invalid -ramp value: %v", err)
	}

	g := newGame(cfg, ramp)

	if *useOpenCLFlag {
		if solver, err := newOpenCLFieldSolver(cfg.gridW, cfg.gridH); err != nil {
			// The effect stays available on the CPU worker path.
			log.Printf("OpenCL unavailable, using CPU solver: %v", err)
		} else {
			log.Printf("OpenCL solver enabled (device: %s)", solver.DeviceName())
			g.gpu = solver
		}
	}
	defer func() {
		if g.gpu != nil {
			g.gpu.Close()
		}
	}()

	if *enableAudioFlag {
		g.enableAudio()
	}

	if *recordDefaultPGO {
		stop, err := startDefaultPGORecording("default.pgo")
		if err != nil {
			log.Fatalf("PGO recording failed to start: %v", err)
		}
		g.startSweep(pgoRecordDuration, stop)
	}

	ebiten.SetWindowSize(cfg.gridW*windowScale, cfg.gridH*windowScale)
	ebiten.SetWindowTitle("Glass Step Distortion")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Game loop failed: %v", err)
	}
}
