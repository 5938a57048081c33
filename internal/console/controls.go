package console

import (
	"math"

	"twinconsole/internal/frame"
)

// Binnings lists the binning factors the operator can pick.
var Binnings = []int{1, 2, 4}

// Slider describes one continuous control.
type Slider struct {
	Label string
	Min   float64
	Max   float64
	Step  float64

	Get func(frame.Params) float64
	Set func(frame.Params, float64) frame.Params
}

// Snap rounds v to the nearest step above Min and clamps it to the range.
func (s Slider) Snap(v float64) float64 {
	if v <= s.Min {
		return s.Min
	}
	if v >= s.Max {
		return s.Max
	}
	steps := math.Round((v - s.Min) / s.Step)
	// Decimal steps drift in binary (0.05 + 15*0.01 = 0.19999...).
	v = roundTo(s.Min+steps*s.Step, decimals(s.Step))
	return math.Min(math.Max(v, s.Min), s.Max)
}

// Fraction maps the slider value in p to [0, 1] along the track.
func (s Slider) Fraction(p frame.Params) float64 {
	if s.Max == s.Min {
		return 0
	}
	f := (s.Get(p) - s.Min) / (s.Max - s.Min)
	return math.Min(math.Max(f, 0), 1)
}

// SetFraction positions the slider at fraction f of its track.
func (s Slider) SetFraction(p frame.Params, f float64) frame.Params {
	return s.Set(p, s.Snap(s.Min+f*(s.Max-s.Min)))
}

// Nudge moves the slider by n steps.
func (s Slider) Nudge(p frame.Params, n int) frame.Params {
	return s.Set(p, s.Snap(s.Get(p)+float64(n)*s.Step))
}

// Sliders returns the continuous controls in display order.
func Sliders() []Slider {
	return []Slider{
		{
			Label: "Incidence angle (deg)", Min: 0.05, Max: 1.0, Step: 0.01,
			Get: func(p frame.Params) float64 { return p.IncidenceDeg },
			Set: func(p frame.Params, v float64) frame.Params { p.IncidenceDeg = v; return p },
		},
		{
			Label: "Beam center X", Min: 0, Max: 1, Step: 0.01,
			Get: func(p frame.Params) float64 { return p.BeamCenterX },
			Set: func(p frame.Params, v float64) frame.Params { p.BeamCenterX = v; return p },
		},
		{
			Label: "Beam center Y", Min: 0, Max: 1, Step: 0.01,
			Get: func(p frame.Params) float64 { return p.BeamCenterY },
			Set: func(p frame.Params, v float64) frame.Params { p.BeamCenterY = v; return p },
		},
		{
			Label: "Detector distance (mm)", Min: 100, Max: 500, Step: 5,
			Get: func(p frame.Params) float64 { return p.DetectorDistanceMm },
			Set: func(p frame.Params, v float64) frame.Params { p.DetectorDistanceMm = v; return p },
		},
		{
			Label: "Detector tilt (deg)", Min: -15, Max: 15, Step: 0.5,
			Get: func(p frame.Params) float64 { return p.TiltDeg },
			Set: func(p frame.Params, v float64) frame.Params { p.TiltDeg = v; return p },
		},
		{
			Label: "Exposure (ms)", Min: 50, Max: 800, Step: 10,
			Get: func(p frame.Params) float64 { return p.ExposureMs },
			Set: func(p frame.Params, v float64) frame.Params { p.ExposureMs = v; return p },
		},
	}
}

// decimals returns how many fractional digits step carries (at most 6).
func decimals(step float64) int {
	n := 0
	for n < 6 && math.Abs(step-math.Round(step)) > 1e-9 {
		step *= 10
		n++
	}
	return n
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}
