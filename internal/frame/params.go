package frame

import "fmt"

// Params holds the instrument and acquisition settings that drive one frame.
// Values are not range checked here; the console controls keep them inside the
// operator ranges.
type Params struct {
	IncidenceDeg       float64
	BeamCenterX        float64 // fraction of width
	BeamCenterY        float64 // fraction of height
	DetectorDistanceMm float64
	TiltDeg            float64
	ExposureMs         float64
	Binning            int // 1, 2 or 4
}

// DefaultParams returns the settings the console starts with.
func DefaultParams() Params {
	return Params{
		IncidenceDeg:       0.20,
		BeamCenterX:        0.50,
		BeamCenterY:        0.55,
		DetectorDistanceMm: 250,
		TiltDeg:            3,
		ExposureMs:         220,
		Binning:            1,
	}
}

// String formats the params as the single status line shown in the console
// header and log.
func (p Params) String() string {
	return fmt.Sprintf("inc=%.2f°  bc=(%.2f,%.2f)  dist=%.0fmm  tilt=%.1f°  exp=%.0fms  bin=%dx",
		p.IncidenceDeg, p.BeamCenterX, p.BeamCenterY, p.DetectorDistanceMm, p.TiltDeg, p.ExposureMs, p.Binning)
}
