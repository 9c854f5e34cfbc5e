package main

import "sync"

const audioFieldGain = 3.0

// fieldAudioStream implements io.Reader for Ebiten's audio player, holding
// the latest field displacement under the pointer. The Update loop writes a
// new sample each frame; the audio goroutine reads whenever the player needs
// data, so access is mutex guarded.
type fieldAudioStream struct {
	mu     sync.Mutex
	sample float32
	dc     float32
}

func newFieldAudioStream() *fieldAudioStream {
	return &fieldAudioStream{}
}

// SetSample publishes the latest field value, clamped and AC coupled so a
// displaced-but-steady field does not hold a DC offset on the speakers.
func (s *fieldAudioStream) SetSample(v float32) {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	s.mu.Lock()
	const alpha = 0.001
	s.dc += alpha * (v - s.dc)
	// The DC estimate can carry the corrected sample past the rails, and an
	// out-of-range value would overflow the int16 conversion in Read.
	out := v - s.dc
	if out > 1 {
		out = 1
	} else if out < -1 {
		out = -1
	}
	s.sample = out
	s.mu.Unlock()
}

func (s *fieldAudioStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	// Whole stereo int16 frames only.
	frameBytes := len(p) - len(p)%4
	if frameBytes == 0 {
		return 0, nil
	}
	s.mu.Lock()
	sample := s.sample
	s.mu.Unlock()

	for i := 0; i < frameBytes; i += 4 {
		v := int16(sample * 32767)
		p[i] = byte(v)
		p[i+1] = byte(v >> 8)
		p[i+2] = p[i]
		p[i+3] = p[i+1]
	}
	return frameBytes, nil
}

func (s *fieldAudioStream) Close() error { return nil }
