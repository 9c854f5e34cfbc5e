package main

import (
	"runtime"
	"sync"
)

// rowRange is the half-open span of grid rows assigned to one worker.
type rowRange struct{ y0, y1 int }

// simWorkerPool fans one simulation step out across long-lived goroutines,
// one row slice per worker. Workers sleep on a condition variable between
// steps so no goroutines are spawned per frame.
type simWorkerPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	ranges  []rowRange
	pending int
	step    int
	started bool

	field    *feedbackField
	uniforms simUniforms
}

// newSimWorkerPool sizes a pool for the given grid height, defaulting the
// worker count to the number of CPUs.
func newSimWorkerPool(height, workers int) *simWorkerPool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}
	p := &simWorkerPool{}
	p.cond = sync.NewCond(&p.mu)
	p.ranges = splitRows(height, workers)
	return p
}

// splitRows divides height rows into count contiguous near-equal ranges.
func splitRows(height, count int) []rowRange {
	ranges := make([]rowRange, 0, count)
	per := (height + count - 1) / count
	for y := 0; y < height; y += per {
		end := y + per
		if end > height {
			end = height
		}
		ranges = append(ranges, rowRange{y0: y, y1: end})
	}
	return ranges
}

// start launches the worker goroutines on first use.
func (p *simWorkerPool) start() {
	if p.started {
		return
	}
	p.started = true
	for i := 0; i < len(p.ranges); i++ {
		go p.workerLoop(i)
	}
}

// workerLoop waits for a step fence, processes its row range, and reports
// completion.
func (p *simWorkerPool) workerLoop(index int) {
	lastStep := 0
	p.mu.Lock()
	for {
		for p.step == lastStep {
			p.cond.Wait()
		}
		lastStep = p.step
		field := p.field
		un := p.uniforms
		r := p.ranges[index]
		p.mu.Unlock()

		processFieldRows(field, r.y0, r.y1, &un)

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
	}
}

// Step runs one parallel field step and blocks until every worker finishes.
// The caller swaps the buffers afterwards; workers only ever read curr and
// write next.
func (p *simWorkerPool) Step(f *feedbackField, un *simUniforms) {
	p.mu.Lock()
	p.start()
	p.field = f
	p.uniforms = *un
	p.pending = len(p.ranges)
	p.step++
	p.cond.Broadcast()
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}
