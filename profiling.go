package main

import (
	"log"
	"os"
	"runtime/pprof"
	"sync"
)

// startDefaultPGORecording begins writing a CPU profile to the provided path.
// The caller drives a synthetic pointer sweep for the duration of the
// recording so the profile covers an actively injecting field rather than one
// decayed to rest. The returned stop function is safe to call more than once.
func startDefaultPGORecording(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	log.Printf("Recording CPU profile to %v", path)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				log.Printf("Closing profile %v failed: %v", path, err)
			} else {
				log.Printf("CPU profile written to %v", path)
			}
		})
	}
	return stop, nil
}
