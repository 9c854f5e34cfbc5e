package main

// Channel layout of one field cell. Each cell stores a displacement vector,
// a derived magnitude, and a slow-tracking persistence marker.
const (
	cellStride = 4
	cellDX     = 0
	cellDY     = 1
	cellMag    = 2
	cellAlpha  = 3
)

// feedbackField stores the two ping-pong simulation buffers. Exactly one
// buffer is current at any time; each step reads current, writes next, and
// swaps. Reading and writing the same buffer within one step is never valid.
type feedbackField struct {
	width, height int
	curr          []float32
	next          []float32
}

// newFeedbackField allocates a field with properly sized zeroed buffers.
func newFeedbackField(width, height int) *feedbackField {
	size := width * height * cellStride
	return &feedbackField{
		width:  width,
		height: height,
		curr:   make([]float32, size),
		next:   make([]float32, size),
	}
}

// Swap exchanges the roles of the read and write buffers.
func (f *feedbackField) Swap() {
	f.curr, f.next = f.next, f.curr
}

// Current returns the buffer holding the latest completed step.
func (f *feedbackField) Current() []float32 { return f.curr }

// cellIndex returns the slice offset of the cell at grid coordinates (x, y).
func (f *feedbackField) cellIndex(x, y int) int {
	return (y*f.width + x) * cellStride
}

// SampleUV reads the current-buffer cell nearest to the normalized
// coordinate. Out-of-range coordinates clamp to the border cell.
func (f *feedbackField) SampleUV(u, v float64) (dx, dy, mag, alpha float32) {
	x := clamp(int(u*float64(f.width)), 0, f.width-1)
	y := clamp(int(v*float64(f.height)), 0, f.height-1)
	i := f.cellIndex(x, y)
	return f.curr[i+cellDX], f.curr[i+cellDY], f.curr[i+cellMag], f.curr[i+cellAlpha]
}

// Reset clears both buffers back to rest.
func (f *feedbackField) Reset() {
	for i := range f.curr {
		f.curr[i] = 0
	}
	for i := range f.next {
		f.next[i] = 0
	}
}

// maxMagnitude scans the current buffer for the largest displacement
// magnitude channel. Used by the debug overlay and tests.
func (f *feedbackField) maxMagnitude() float32 {
	var m float32
	for i := cellMag; i < len(f.curr); i += cellStride {
		if f.curr[i] > m {
			m = f.curr[i]
		}
	}
	return m
}
