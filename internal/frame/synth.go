package frame

import (
	"fmt"
	"image"
	"math"
)

const (
	// SeamPeriod is the spacing in pixels of the detector module seams.
	SeamPeriod = 64
	// SeamGain is added to the intensity of every seam pixel.
	SeamGain = 0.10

	beamstopGain = -0.9
	vignetteGain = 0.12
	blueCast     = 12
)

// Terms are the per-frame quantities derived from Params and the frame size.
// Alternative backends evaluate the same per-pixel formula from them.
type Terms struct {
	CX, CY           float64 // beam center in pixels
	SinTilt, CosTilt float64

	RingScale      float64
	Anisotropy     float64
	Background     float64
	NoiseAmp       float64
	BeamstopRadius float64
	Saturation     float64
}

// DeriveTerms maps p onto the effect knobs for a width x height frame. The
// mappings are deliberately simple: tilt degrees act as a rotation scale and
// incidence is read on a 0..1 range.
func DeriveTerms(p Params, width, height int) Terms {
	tilt := p.TiltDeg / 20 * 0.9
	inc := p.IncidenceDeg / 1.0 * 0.7
	dist := (p.DetectorDistanceMm - 100) / 400
	exp := p.ExposureMs / 800

	return Terms{
		CX:             p.BeamCenterX * float64(width),
		CY:             p.BeamCenterY * float64(height),
		SinTilt:        math.Sin(tilt),
		CosTilt:        math.Cos(tilt),
		RingScale:      lerp(20, 55, clamp(dist, 0, 1)),
		Anisotropy:     clamp(0.2+inc, 0, 1),
		Background:     0.08 + 0.15*exp,
		NoiseAmp:       0.06 + 0.10*exp,
		BeamstopRadius: 18 + 10*exp,
		Saturation:     clamp(0.75+0.9*exp, 0.75, 1.7),
	}
}

type field struct {
	width, height float64
	maxDim        float64
	Terms
}

func newField(width, height int, p Params) field {
	w, h := float64(width), float64(height)
	return field{
		width:  w,
		height: h,
		maxDim: math.Max(w, h),
		Terms:  DeriveTerms(p, width, height),
	}
}

// combine sums the noise-free intensity terms at (x, y) with the given seam
// contribution, before saturation and clamping.
func (f *field) combine(x, y int, seam float64) float64 {
	dx0 := float64(x) - f.CX
	dy0 := float64(y) - f.CY
	dx := dx0*f.CosTilt - dy0*f.SinTilt
	dy := dx0*f.SinTilt + dy0*f.CosTilt

	r := math.Sqrt(dx*dx + dy*dy)

	ring1 := gauss((r - f.RingScale*1.2) / 8)
	ring2 := gauss((r - f.RingScale*2.0) / 10)
	ring3 := gauss((r - f.RingScale*2.8) / 12)

	chi := math.Atan2(dy, dx)
	orient := 0.45 + 0.55*gauss((math.Sin(chi)-0.6*f.Anisotropy)/0.5)

	bg := f.Background +
		0.08*gauss(dy/f.height*2.2) +
		0.05*gauss(dx/f.width*2.2)

	vignette := vignetteGain * (r / f.maxDim)

	beamstop := 0.0
	if r < f.BeamstopRadius {
		beamstop = beamstopGain
	}

	return bg +
		orient*(0.55*ring1+0.42*ring2+0.28*ring3) +
		seam -
		vignette +
		beamstop
}

// intensity returns the final [0, 1] intensity at (x, y) for noise sample n.
func (f *field) intensity(x, y int, n float64) float64 {
	v := f.combine(x, y, seamAt(x, y))
	v += (n - 0.5) * f.NoiseAmp
	return clamp(v*f.Saturation, 0, 1)
}

// seamAt returns the module seam contribution at (x, y).
func seamAt(x, y int) float64 {
	if x%SeamPeriod == 0 || y%SeamPeriod == 0 {
		return SeamGain
	}
	return 0
}

// Synthesize draws the frame for p into dst, overwriting every pixel, and then
// applies p.Binning. One noise sample is drawn per pixel in row-major order.
//
// dst must not be empty; an empty destination is a programming error and
// panics.
func Synthesize(dst *image.RGBA, p Params, noise Noise) {
	b := dst.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("frame: invalid frame size %dx%d", width, height))
	}

	f := newField(width, height, p)
	for y := 0; y < height; y++ {
		row := dst.Pix[dst.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < width; x++ {
			v := quantize(f.intensity(x, y, noise.Float64()))
			i := x * 4
			row[i+0] = v
			row[i+1] = v
			row[i+2] = tint(v)
			row[i+3] = 255
		}
	}

	Bin(dst, p.Binning)
}

// Render allocates a width x height frame and synthesizes p into it.
func Render(p Params, width, height int, noise Noise) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	Synthesize(img, p, noise)
	return img
}

// quantize maps a [0, 1] intensity to an 8-bit channel value.
func quantize(v float64) uint8 {
	return uint8(math.Floor(v * 255))
}

// tint gives the blue channel its slight cast over the grey value.
func tint(v uint8) uint8 {
	if v > 255-blueCast {
		return 255
	}
	return v + blueCast
}

func gauss(t float64) float64 {
	return math.Exp(-(t * t))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp limits v to [lo, hi]; NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
