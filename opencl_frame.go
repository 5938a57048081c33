//go:build opencl

package main

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"twinconsole/internal/frame"
)

// openCLFrameSynthesizer evaluates the per-pixel formula on an OpenCL device.
// Noise is drawn on the host in row-major order so the stream matches the CPU
// path; binning runs on the host afterwards.
type openCLFrameSynthesizer struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	noiseBuf   *cl.MemObject
	pixBuf     *cl.MemObject
	width      int
	height     int
	noise      []float32
	deviceName string
}

const frameKernelSource = `__kernel void synth_frame(
    const int width,
    const int height,
    const float cx,
    const float cy,
    const float sin_t,
    const float cos_t,
    const float ring_scale,
    const float aniso,
    const float background,
    const float noise_amp,
    const float beamstop_r,
    const float saturation,
    const int seam_period,
    const float seam_gain,
    __global const float* noise,
    __global uchar* pix)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    float dx0 = (float)x - cx;
    float dy0 = (float)y - cy;
    float dx = dx0 * cos_t - dy0 * sin_t;
    float dy = dx0 * sin_t + dy0 * cos_t;
    float r = sqrt(dx * dx + dy * dy);

    float t1 = (r - ring_scale * 1.2f) / 8.0f;
    float t2 = (r - ring_scale * 2.0f) / 10.0f;
    float t3 = (r - ring_scale * 2.8f) / 12.0f;
    float rings = 0.55f * exp(-t1 * t1) + 0.42f * exp(-t2 * t2) + 0.28f * exp(-t3 * t3);

    float to = (sin(atan2(dy, dx)) - 0.6f * aniso) / 0.5f;
    float orient = 0.45f + 0.55f * exp(-to * to);

    float ty = dy / (float)height * 2.2f;
    float tx = dx / (float)width * 2.2f;
    float bg = background + 0.08f * exp(-ty * ty) + 0.05f * exp(-tx * tx);

    float seam = (x % seam_period == 0 || y % seam_period == 0) ? seam_gain : 0.0f;
    float vignette = 0.12f * (r / (float)max(width, height));
    float beamstop = r < beamstop_r ? -0.9f : 0.0f;

    float v = bg + orient * rings + seam - vignette + beamstop;
    v += (noise[idx] - 0.5f) * noise_amp;
    v = fmin(fmax(v * saturation, 0.0f), 1.0f);

    int q = (int)floor(v * 255.0f);
    int o = idx * 4;
    pix[o] = (uchar)q;
    pix[o + 1] = (uchar)q;
    pix[o + 2] = (uchar)min(q + 12, 255);
    pix[o + 3] = 255;
}`

// pickDevice prefers the first GPU and falls back to the first CPU device.
func pickDevice() (*cl.Device, error) {
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
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func newOpenCLFrameSynthesizer(width, height int) (*openCLFrameSynthesizer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}

	s := &openCLFrameSynthesizer{
		width:      width,
		height:     height,
		noise:      make([]float32, width*height),
		deviceName: device.Name(),
	}
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{frameKernelSource}); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.kernel, err = s.program.CreateKernel("synth_frame"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	size := width * height
	if s.noiseBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, size*int(unsafe.Sizeof(float32(0)))); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating noise buffer: %w", err)
	}
	if s.pixBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, size*4); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating pixel buffer: %w", err)
	}
	return s, nil
}

func (s *openCLFrameSynthesizer) Name() string { return "opencl" }

// Synthesize renders p into dst, which must be a whole width x height image.
func (s *openCLFrameSynthesizer) Synthesize(dst *image.RGBA, p frame.Params, noise frame.Noise) error {
	b := dst.Bounds()
	if b.Dx() != s.width || b.Dy() != s.height || dst.Stride != s.width*4 {
		return fmt.Errorf("frame is %dx%d (stride %d), synthesizer expects %dx%d",
			b.Dx(), b.Dy(), dst.Stride, s.width, s.height)
	}

	t := frame.DeriveTerms(p, s.width, s.height)
	if err := s.kernel.SetArgs(
		int32(s.width),
		int32(s.height),
		float32(t.CX),
		float32(t.CY),
		float32(t.SinTilt),
		float32(t.CosTilt),
		float32(t.RingScale),
		float32(t.Anisotropy),
		float32(t.Background),
		float32(t.NoiseAmp),
		float32(t.BeamstopRadius),
		float32(t.Saturation),
		int32(frame.SeamPeriod),
		float32(frame.SeamGain),
		s.noiseBuf,
		s.pixBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}

	frame.Fill(s.noise, noise)
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.noiseBuf, false, 0, s.noise, nil); err != nil {
		return fmt.Errorf("writing noise buffer: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{s.width * s.height}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	n := s.width * s.height * 4
	if _, err := s.queue.EnqueueReadBuffer(s.pixBuf, true, 0, n, unsafe.Pointer(&dst.Pix[0]), nil); err != nil {
		return fmt.Errorf("reading pixel buffer: %w", err)
	}

	frame.Bin(dst, p.Binning)
	return nil
}

func (s *openCLFrameSynthesizer) Close() {
	if s.pixBuf != nil {
		s.pixBuf.Release()
		s.pixBuf = nil
	}
	if s.noiseBuf != nil {
		s.noiseBuf.Release()
		s.noiseBuf = nil
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

func (s *openCLFrameSynthesizer) DeviceName() string {
	return s.deviceName
}

// listOpenCLDevices reports every GPU and CPU device of every platform.
func listOpenCLDevices() ([]openCLDevice, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, fmt.Errorf("querying OpenCL platforms: %w", err)
	}
	var out []openCLDevice
	for _, p := range platforms {
		for _, kind := range []struct {
			t    cl.DeviceType
			name string
		}{{cl.DeviceTypeGPU, "gpu"}, {cl.DeviceTypeCPU, "cpu"}} {
			devices, derr := p.GetDevices(kind.t)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				return nil, fmt.Errorf("listing %s devices of %s: %w", kind.name, p.Name(), derr)
			}
			for _, d := range devices {
				out = append(out, openCLDevice{Platform: p.Name(), Name: d.Name(), Kind: kind.name})
			}
		}
	}
	return out, nil
}
