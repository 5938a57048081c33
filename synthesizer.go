package main

import (
	"image"

	"twinconsole/internal/frame"
)

// frameSynthesizer fills a frame for a parameter set. Implementations own
// whatever device state they need; the caller owns dst.
type frameSynthesizer interface {
	Name() string
	Synthesize(dst *image.RGBA, p frame.Params, noise frame.Noise) error
	Close()
}

// openCLDevice is one entry reported by list-devices.
type openCLDevice struct {
	Platform string
	Name     string
	Kind     string
}

type cpuSynthesizer struct{}

func (cpuSynthesizer) Name() string { return "cpu" }

func (cpuSynthesizer) Synthesize(dst *image.RGBA, p frame.Params, noise frame.Noise) error {
	frame.Synthesize(dst, p, noise)
	return nil
}

func (cpuSynthesizer) Close() {}

// newSynthesizer returns the OpenCL synthesizer when requested and available,
// and the CPU one otherwise.
func newSynthesizer(useOpenCL bool, width, height int) frameSynthesizer {
	if !useOpenCL {
		return cpuSynthesizer{}
	}
	s, err := newOpenCLFrameSynthesizer(width, height)
	if err != nil {
		logger.Warningf("OpenCL initialization failed, using the CPU: %v", err)
		return cpuSynthesizer{}
	}
	logger.Noticef("OpenCL synthesizer enabled (device: %s)", s.DeviceName())
	return s
}
