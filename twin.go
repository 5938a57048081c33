package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"twinconsole/internal/frame"
)

// The schematic is laid out on a 520x220 board and scaled into the twin box.
const (
	twinBoardW = 520
	twinBoardH = 220
	twinScale  = float64(twinW) / twinBoardW

	beamY       = 110
	sampleX     = 70
	detectorMid = 260
	detectorRun = 160
)

// twinGeometry holds the parameter dependent parts of the schematic in board
// coordinates.
type twinGeometry struct {
	detX       float64
	tiltRad    float64
	markX      float64
	markY      float64
	incidence  float64
	markerDetX float64
	markerDetY float64
}

func newTwinGeometry(p frame.Params) twinGeometry {
	bx := 40 + p.BeamCenterX*120
	by := 30 + p.BeamCenterY*80
	dist := math.Min(math.Max((p.DetectorDistanceMm-100)/400, 0), 1)
	g := twinGeometry{
		detX:      detectorMid + dist*detectorRun,
		tiltRad:   p.TiltDeg * math.Pi / 180,
		markX:     -20 + bx/200*40,
		markY:     -60 + by/120*120,
		incidence: p.IncidenceDeg,
	}
	g.markerDetX, g.markerDetY = g.detector(g.markX, g.markY)
	return g
}

// detector maps a point in the detector's own frame onto the board.
func (g twinGeometry) detector(x, y float64) (float64, float64) {
	sin, cos := math.Sincos(g.tiltRad)
	return g.detX + x*cos - y*sin, beamY + x*sin + y*cos
}

// twinPoint maps board coordinates to the screen.
func twinPoint(x, y float64) (float32, float32) {
	return float32(twinX + x*twinScale), float32(twinY + y*twinScale)
}

func twinLine(screen *ebiten.Image, x0, y0, x1, y1 float64, width float32, clr color.Color) {
	sx0, sy0 := twinPoint(x0, y0)
	sx1, sy1 := twinPoint(x1, y1)
	vector.StrokeLine(screen, sx0, sy0, sx1, sy1, width, clr, true)
}

func twinLabel(screen *ebiten.Image, s string, x, y float64) {
	sx, sy := twinPoint(x, y)
	// Board labels are placed by baseline.
	ebitenutil.DebugPrintAt(screen, s, int(sx), int(sy)-lineHeight+4)
}

// drawTwin draws the instrument schematic for p.
func drawTwin(screen *ebiten.Image, p frame.Params) {
	g := newTwinGeometry(p)

	x0, y0 := twinPoint(0, 0)
	vector.DrawFilledRect(screen, x0, y0, float32(twinW), float32(twinH), colorSurface2, false)

	// Sample.
	sx, sy := twinPoint(sampleX, 100)
	vector.DrawFilledRect(screen, sx, sy, float32(40*twinScale), float32(20*twinScale), colorBorder, false)
	twinLabel(screen, "Sample", sampleX, 95)

	// Beam.
	twinLine(screen, 20, beamY, sampleX, beamY, 2, colorPrimary)
	twinLabel(screen, "Beam", 20, 95)

	// Detector, rotated by the tilt around its centre on the beam axis.
	corners := [4][2]float64{{-20, -60}, {20, -60}, {20, 60}, {-20, 60}}
	for i := range corners {
		ax, ay := g.detector(corners[i][0], corners[i][1])
		n := corners[(i+1)%len(corners)]
		bx, by := g.detector(n[0], n[1])
		twinLine(screen, ax, ay, bx, by, 1.5, colorPrimary)
	}
	mx, my := twinPoint(g.markerDetX, g.markerDetY)
	vector.DrawFilledCircle(screen, mx, my, float32(6*twinScale), colorInteractive, true)
	twinLabel(screen, "Detector", g.detX-35, 40)

	// Incidence hint: a short arc opening from the beam axis at the sample.
	const arcR, arcEnd, arcSegs = 32.0, -0.46, 10
	px, py := sampleX+arcR, float64(beamY)
	for i := 1; i <= arcSegs; i++ {
		a := arcEnd * float64(i) / arcSegs
		nx, ny := sampleX+arcR*math.Cos(a), beamY+arcR*math.Sin(a)
		twinLine(screen, px, py, nx, ny, 2, colorPrimaryHover)
		px, py = nx, ny
	}
	twinLabel(screen, fmt.Sprintf("theta = %.2f deg", g.incidence), 102, 96)
}
