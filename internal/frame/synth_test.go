package frame

import (
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// constNoise always yields the same sample; 0.5 cancels the noise term.
type constNoise float64

func (n constNoise) Float64() float64 { return float64(n) }

func randomParams(r *rand.Rand) Params {
	return Params{
		IncidenceDeg:       0.05 + r.Float64()*0.95,
		BeamCenterX:        r.Float64(),
		BeamCenterY:        r.Float64(),
		DetectorDistanceMm: 100 + r.Float64()*400,
		TiltDeg:            -15 + r.Float64()*30,
		ExposureMs:         50 + r.Float64()*750,
		Binning:            []int{1, 2, 4}[r.Intn(3)],
	}
}

func TestSynthesizeChannels(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		p := randomParams(r)
		img := Render(p, 67, 45, NewNoise(int64(i)))
		for y := 0; y < 45; y++ {
			for x := 0; x < 67; x++ {
				c := img.RGBAAt(x, y)
				if c.A != 255 {
					t.Fatalf("params %v: expected opaque pixel at (%d,%d); got alpha %d", p, x, y, c.A)
				}
				if c.R != c.G {
					t.Fatalf("params %v: expected R == G at (%d,%d); got %d, %d", p, x, y, c.R, c.G)
				}
				expB := int(c.R) + blueCast
				if expB > 255 {
					expB = 255
				}
				if int(c.B) != expB {
					t.Fatalf("params %v: expected B %d at (%d,%d); got %d", p, expB, x, y, c.B)
				}
			}
		}
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	p := DefaultParams()
	a := Render(p, 160, 120, NewNoise(42))
	b := Render(p, 160, 120, NewNoise(42))
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Fatalf("frames rendered with the same seed differ (-first +second):\n%s", diff)
	}
}

func TestSynthesizeNoiseOnlyDiffers(t *testing.T) {
	p := DefaultParams()
	const w, h = 160, 120
	a := Render(p, w, h, NewNoise(1))
	b := Render(p, w, h, NewNoise(2))

	f := newField(w, h, p)
	bound := int(math.Ceil(f.NoiseAmp*f.Saturation*255)) + 1
	differ := 0
	for i := 0; i < len(a.Pix); i += 4 {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > bound {
			t.Fatalf("pixel %d differs by %d; noise can only account for %d", i/4, d, bound)
		}
		if d != 0 {
			differ++
		}
	}
	if differ == 0 {
		t.Fatal("expected different seeds to change at least one pixel")
	}
}

func TestSynthesizeMatchesField(t *testing.T) {
	p := DefaultParams()
	const w, h = 96, 80
	img := Render(p, w, h, constNoise(0.5))
	f := newField(w, h, p)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			exp := quantize(clamp(f.combine(x, y, seamAt(x, y))*f.Saturation, 0, 1))
			if got := img.RGBAAt(x, y).R; got != exp {
				t.Fatalf("expected %d at (%d,%d); got %d", exp, x, y, got)
			}
		}
	}
}

func TestSeamTerm(t *testing.T) {
	p := DefaultParams()
	f := newField(300, 200, p)
	for y := 0; y < 200; y += 7 {
		for x := 0; x < 300; x++ {
			delta := f.combine(x, y, seamAt(x, y)) - f.combine(x, y, 0)
			exp := 0.0
			if x%64 == 0 || y%64 == 0 {
				exp = 0.10
			}
			if math.Abs(delta-exp) > 1e-9 {
				t.Fatalf("expected seam delta %v at (%d,%d); got %v", exp, x, y, delta)
			}
		}
	}
}

func TestBeamCenterAtEdges(t *testing.T) {
	const w, h = 200, 150
	specs := []struct {
		bcx, bcy float64
		x, y     int
	}{
		{0, 0, 1, 1},
		{1, 1, w - 2, h - 2},
		{0, 1, 1, h - 2},
	}
	for _, spec := range specs {
		p := DefaultParams()
		p.BeamCenterX, p.BeamCenterY = spec.bcx, spec.bcy
		img := Render(p, w, h, constNoise(0.5))
		if got := img.RGBAAt(spec.x, spec.y).R; got != 0 {
			t.Errorf("beam center (%v,%v): expected beamstop shadow at (%d,%d); got %d", spec.bcx, spec.bcy, spec.x, spec.y, got)
		}
		if got := img.RGBAAt(w/2+1, h/2+1).R; got == 0 {
			t.Errorf("beam center (%v,%v): expected lit pixel away from the edge", spec.bcx, spec.bcy)
		}
	}
}

func TestBinningMatchesPostProcess(t *testing.T) {
	for _, factor := range []int{2, 4} {
		p := DefaultParams()
		full := Render(p, 128, 96, NewNoise(7))
		Bin(full, factor)

		p.Binning = factor
		binned := Render(p, 128, 96, NewNoise(7))

		if diff := cmp.Diff(full.Pix, binned.Pix); diff != "" {
			t.Fatalf("binning %d: post-processed frame differs from pipeline (-post +pipeline):\n%s", factor, diff)
		}
	}
}

func TestBinningBlocks(t *testing.T) {
	p := DefaultParams()
	p.Binning = 4
	img := Render(p, 128, 96, NewNoise(3))
	for y := 0; y < 96; y++ {
		for x := 0; x < 128; x++ {
			anchor := img.RGBAAt(x-x%4, y-y%4)
			if got := img.RGBAAt(x, y); got != anchor {
				t.Fatalf("expected (%d,%d) to match its block anchor %v; got %v", x, y, anchor, got)
			}
		}
	}
}

func TestBinningUnevenSize(t *testing.T) {
	p := DefaultParams()
	p.Binning = 4
	img := Render(p, 130, 3, NewNoise(3))
	if b := img.Bounds(); b.Dx() != 130 || b.Dy() != 3 {
		t.Fatalf("expected frame to keep its 130x3 size; got %dx%d", b.Dx(), b.Dy())
	}

	// Too small to shrink: left at full resolution.
	got := Render(p, 3, 3, NewNoise(5))
	p.Binning = 1
	exp := Render(p, 3, 3, NewNoise(5))
	if diff := cmp.Diff(exp.Pix, got.Pix); diff != "" {
		t.Fatalf("expected binning to skip a 3x3 frame (-want +got):\n%s", diff)
	}
}

func TestSynthesizeSubImage(t *testing.T) {
	p := DefaultParams()
	exp := Render(p, 40, 30, NewNoise(9))

	canvas := image.NewRGBA(image.Rect(0, 0, 100, 100))
	sub := canvas.SubImage(image.Rect(10, 20, 50, 50)).(*image.RGBA)
	Synthesize(sub, p, NewNoise(9))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			if got, want := canvas.RGBAAt(10+x, 20+y), exp.RGBAAt(x, y); got != want {
				t.Fatalf("expected %v at (%d,%d); got %v", want, x, y, got)
			}
		}
	}
	if c := canvas.RGBAAt(0, 0); c.A != 0 {
		t.Fatalf("expected pixels outside the sub-image to stay untouched; got %v", c)
	}
}

func TestSynthesizeEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected an empty frame to panic")
		}
	}()
	Render(DefaultParams(), 0, 10, constNoise(0.5))
}

func TestTint(t *testing.T) {
	specs := []struct{ in, exp uint8 }{
		{0, 12},
		{100, 112},
		{243, 255},
		{255, 255},
	}
	for _, spec := range specs {
		if got := tint(spec.in); got != spec.exp {
			t.Errorf("tint(%d): expected %d; got %d", spec.in, spec.exp, got)
		}
	}
}

func TestFillKeepsStreamOrder(t *testing.T) {
	buf := make([]float32, 16)
	Fill(buf, NewNoise(11))
	n := NewNoise(11)
	for i, v := range buf {
		if exp := float32(n.Float64()); v != exp {
			t.Fatalf("sample %d: expected %v; got %v", i, exp, v)
		}
	}
}
