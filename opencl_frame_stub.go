//go:build !opencl

package main

import (
	"errors"
	"image"

	"twinconsole/internal/frame"
)

var errOpenCLDisabled = errors.New("OpenCL support is not enabled; rebuild with -tags opencl")

type openCLFrameSynthesizer struct{}

func newOpenCLFrameSynthesizer(width, height int) (*openCLFrameSynthesizer, error) {
	return nil, errOpenCLDisabled
}

func (s *openCLFrameSynthesizer) Name() string { return "opencl" }

func (s *openCLFrameSynthesizer) Synthesize(*image.RGBA, frame.Params, frame.Noise) error {
	return errOpenCLDisabled
}

func (s *openCLFrameSynthesizer) Close() {}

func (s *openCLFrameSynthesizer) DeviceName() string { return "" }

func listOpenCLDevices() ([]openCLDevice, error) {
	return nil, errOpenCLDisabled
}
