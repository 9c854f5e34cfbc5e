//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// openCLFieldSolver dispatches the per-cell field update on an OpenCL device.
// The device keeps both ping-pong buffers resident; only the finished step is
// read back so the compositor and audio tap can sample it.
type openCLFieldSolver struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel

	currBuf *cl.MemObject
	nextBuf *cl.MemObject

	width      int
	height     int
	deviceName string
	coldStart  bool
}

const fieldKernelSource = `
static float lattice_hash(int ix, int iy)
{
    uint h = (uint)ix * 374761393u + (uint)iy * 668265263u;
    h = (h ^ (h >> 13)) * 1274126177u;
    h ^= h >> 16;
    return (float)h / 4294967295.0f;
}

static float value_noise(float x, float y)
{
    float fx = floor(x);
    float fy = floor(y);
    int ix = (int)fx;
    int iy = (int)fy;
    float tx = x - fx;
    float ty = y - fy;
    tx = tx * tx * (3.0f - 2.0f * tx);
    ty = ty * ty * (3.0f - 2.0f * ty);
    float v00 = lattice_hash(ix, iy);
    float v10 = lattice_hash(ix + 1, iy);
    float v01 = lattice_hash(ix, iy + 1);
    float v11 = lattice_hash(ix + 1, iy + 1);
    float top = v00 + (v10 - v00) * tx;
    float bottom = v01 + (v11 - v01) * tx;
    return top + (bottom - top) * ty;
}

static float fbm4(float x, float y)
{
    float sum = 0.0f;
    float norm = 0.0f;
    float amp = 1.0f;
    float freq = 1.0f;
    for (int i = 0; i < 4; i++) {
        sum += value_noise(x * freq, y * freq) * amp;
        norm += amp;
        amp *= 0.5f;
        freq *= 2.0f;
    }
    return sum / norm;
}

__kernel void field_step(
    const int width,
    const int height,
    const float px,
    const float py,
    const float speed,
    const float dir_blend,
    const float t,
    const float radius,
    const float relax,
    __global const float* curr,
    __global float* next_buffer)
{
    int idx = get_global_id(0);
    int size = width * height;
    if (idx >= size) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    float u = ((float)x + 0.5f) / (float)width;
    float v = ((float)y + 0.5f) / (float)height;

    int base = idx * 4;
    float prev_dx = curr[base];
    float prev_dy = curr[base + 1];
    float prev_alpha = curr[base + 3];

    float du = u - px;
    float dv = v - py;
    float dist = hypot(du, dv);
    float influence = 1.0f - smoothstep(0.0f, radius, dist);

    float cx = 0.0f;
    float cy = 0.0f;
    float ax = fabs(du);

    if (ax < BAND_HALF_WIDTH && influence > 0.0f) {
        float band_t = 1.0f - smoothstep(0.0f, BAND_HALF_WIDTH, ax);
        float n = fbm4(u * NOISE_FREQUENCY, v * NOISE_FREQUENCY + t * NOISE_DRIFT);
        float inj = (n * 2.0f - 1.0f) * influence * speed * INJECT_STRENGTH * band_t;
        float wave = sin(v * WAVE_FREQUENCY - t * WAVE_SPEED) * WAVE_STRENGTH * influence * speed * band_t;
        cx += inj * 0.4f;
        cy += inj + wave;
    }

    if (ax < TRAIL_BAND_HALF_WIDTH && influence > 0.0f) {
        float trail_t = 1.0f - smoothstep(0.0f, TRAIL_BAND_HALF_WIDTH, ax);
        float n = fbm4(u * NOISE_FREQUENCY + 5.1f, v * NOISE_FREQUENCY - t * NOISE_DRIFT);
        cy += (n * 2.0f - 1.0f) * influence * speed * INJECT_STRENGTH * trail_t * TRAIL_INTENSITY;
    }

    if (influence > 0.0f && speed > 0.0f) {
        cx += dir_blend * speed * DIR_STRENGTH * influence;
        float turb = fbm4(u * TURB_FREQUENCY - t * 0.7f, v * TURB_FREQUENCY + t * 0.45f);
        cx += (turb * 2.0f - 1.0f) * TURB_STRENGTH * speed * influence;
        float turb2 = fbm4(u * TURB_FREQUENCY + 7.3f, v * TURB_FREQUENCY - t * 0.6f);
        cy += (turb2 * 2.0f - 1.0f) * TURB_STRENGTH * speed * influence;
    }

    float ndx = (prev_dx + cx) * relax;
    float ndy = (prev_dy + cy) * relax;

    next_buffer[base] = ndx;
    next_buffer[base + 1] = ndy;
    next_buffer[base + 2] = hypot(ndx, ndy) * MAGNITUDE_GAIN;
    next_buffer[base + 3] = prev_alpha + (influence - prev_alpha) * ALPHA_TRACK;
}`

// kernelBuildOptions injects the shared tuning constants so the kernel and
// cellUpdate stay numerically aligned.
func kernelBuildOptions() string {
	return fmt.Sprintf(
		"-DBAND_HALF_WIDTH=%vf -DTRAIL_BAND_HALF_WIDTH=%vf -DTRAIL_INTENSITY=%vf "+
			"-DINJECT_STRENGTH=%vf -DWAVE_STRENGTH=%vf -DDIR_STRENGTH=%vf -DTURB_STRENGTH=%vf "+
			"-DNOISE_FREQUENCY=%vf -DNOISE_DRIFT=%vf -DTURB_FREQUENCY=%vf "+
			"-DWAVE_FREQUENCY=%vf -DWAVE_SPEED=%vf -DMAGNITUDE_GAIN=%vf -DALPHA_TRACK=%vf",
		bandHalfWidth, trailBandHalfWidth, trailIntensity,
		injectStrength, waveStrength, dirStrength, turbStrength,
		noiseFrequency, noiseDrift, turbFrequency,
		waveFrequency, waveSpeed, magnitudeGain, alphaTrack)
}

func newOpenCLFieldSolver(width, height int) (*openCLFieldSolver, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{fieldKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := program.BuildProgram([]*cl.Device{device}, kernelBuildOptions()); err != nil {
		program.Release()
		queue.Release()
		context.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	kernel, err := program.CreateKernel("field_step")
	if err != nil {
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	byteSize := width * height * cellStride * int(unsafe.Sizeof(float32(0)))
	currBuf, err := context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
	if err != nil {
		kernel.Release()
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("allocating current buffer: %w", err)
	}
	nextBuf, err := context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
	if err != nil {
		currBuf.Release()
		kernel.Release()
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("allocating next buffer: %w", err)
	}

	return &openCLFieldSolver{
		context:    context,
		queue:      queue,
		program:    program,
		kernel:     kernel,
		currBuf:    currBuf,
		nextBuf:    nextBuf,
		width:      width,
		height:     height,
		deviceName: device.Name(),
		coldStart:  true,
	}, nil
}

// Step runs one field update on the device and reads the result back into
// the host field's next buffer before swapping, preserving the same
// ping-pong discipline as the CPU path. The device buffers swap in lockstep
// so the current state never needs re-uploading after the first frame.
func (s *openCLFieldSolver) Step(f *feedbackField, un *simUniforms) error {
	size := s.width * s.height * cellStride
	if len(f.curr) != size || len(f.next) != size {
		return fmt.Errorf("unexpected field buffer size")
	}
	if s.coldStart {
		if _, err := s.queue.EnqueueWriteBufferFloat32(s.currBuf, false, 0, f.curr, nil); err != nil {
			return fmt.Errorf("writing current buffer: %w", err)
		}
		s.coldStart = false
	}
	if err := s.kernel.SetArgs(
		int32(s.width),
		int32(s.height),
		float32(un.PointerX),
		float32(un.PointerY),
		float32(un.Speed),
		float32(un.DirBlend),
		float32(un.Time),
		float32(un.Radius),
		un.Relaxation,
		s.currBuf,
		s.nextBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	global := []int{s.width * s.height}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing field step: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.nextBuf, true, 0, f.next, nil); err != nil {
		return fmt.Errorf("reading next buffer: %w", err)
	}
	f.Swap()
	s.currBuf, s.nextBuf = s.nextBuf, s.currBuf
	return nil
}

// Close releases every device resource. Safe to call after a failed step.
func (s *openCLFieldSolver) Close() {
	if s.nextBuf != nil {
		s.nextBuf.Release()
		s.nextBuf = nil
	}
	if s.currBuf != nil {
		s.currBuf.Release()
		s.currBuf = nil
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

// DeviceName reports the OpenCL device driving the solver.
func (s *openCLFieldSolver) DeviceName() string { return s.deviceName }
