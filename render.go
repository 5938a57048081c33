package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"twinconsole/internal/console"
)

var (
	colorBackground   = color.RGBA{R: 14, G: 17, B: 24, A: 255}
	colorSurface      = color.RGBA{R: 24, G: 29, B: 40, A: 255}
	colorSurface2     = color.RGBA{R: 32, G: 38, B: 52, A: 255}
	colorBorder       = color.RGBA{R: 70, G: 80, B: 100, A: 255}
	colorPrimary      = color.RGBA{R: 90, G: 150, B: 240, A: 255}
	colorPrimaryHover = color.RGBA{R: 130, G: 180, B: 255, A: 230}
	colorInteractive  = color.RGBA{R: 240, G: 170, B: 60, A: 255}
	colorWarning      = color.RGBA{R: 120, G: 70, B: 30, A: 255}
)

// The debug font only covers ASCII.
var asciiText = strings.NewReplacer("°", " deg")

func printAt(screen *ebiten.Image, s string, x, y int) {
	ebitenutil.DebugPrintAt(screen, asciiText.Replace(s), x, y)
}

// Draw renders the panel, the frame canvas, the twin and the text panes.
func (c *Console) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	printAt(screen, "GIWAXS Parameter Effects  (demo renderer, not physics-accurate)", panelX, 16)
	printAt(screen, c.state.Line(), panelX, 36)

	c.drawControls(screen)

	printAt(screen, "Simulated detector frame", canvasX, canvasY-lineHeight-2)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(canvasX, canvasY)
	screen.DrawImage(c.canvas, op)
	vector.StrokeRect(screen, canvasX-1, canvasY-1, canvasW+2, canvasH+2, 1, colorBorder, false)

	printAt(screen, "Visual twin", twinX, twinY-lineHeight-2)
	drawTwin(screen, c.state.Params)

	c.drawWarnings(screen)
	c.drawLogs(screen)

	if c.debug {
		c.drawDebug(screen)
	}
}

func (c *Console) drawControls(screen *ebiten.Image) {
	for i, s := range c.sliders {
		row := panelY + i*sliderRowH
		label := fmt.Sprintf("%s: %g", s.Label, s.Get(c.state.Params))
		if i == c.focus {
			label = "> " + label
		}
		printAt(screen, label, panelX, row)

		track := sliderTrack(i)
		fillRect(screen, track, colorSurface2)
		filled := track
		filled.Max.X = track.Min.X + int(s.Fraction(c.state.Params)*float64(track.Dx()))
		fillRect(screen, filled, colorPrimary)

		knob := colorPrimaryHover
		if i == c.focus || i == c.dragging {
			knob = colorInteractive
		}
		vector.DrawFilledCircle(screen, float32(filled.Max.X), float32(track.Min.Y+sliderTrackH/2), sliderKnobR, knob, true)
	}

	printAt(screen, "Binning", panelX, binningRowY()-lineHeight)
	for i, b := range console.Binnings {
		fill := colorSurface
		if c.state.Params.Binning == b {
			fill = colorPrimary
		}
		drawButton(screen, binningButton(i), fmt.Sprintf("%dx", b), fill)
	}

	label := "Save frame (S)"
	if c.saving {
		label = "Saving..."
	}
	save := saveButton()
	drawButton(screen, save, label, colorSurface)
	if c.status != "" && time.Since(c.statusAt) < statusTTL {
		printAt(screen, c.status, save.Min.X, save.Max.Y+6)
	}
}

func fillRect(screen *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}

func drawButton(screen *ebiten.Image, r image.Rectangle, text string, fill color.Color) {
	fillRect(screen, r, fill)
	vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, colorBorder, false)
	tx := r.Min.X + (r.Dx()-len(text)*glyphWidth)/2
	ty := r.Min.Y + (r.Dy()-lineHeight)/2
	printAt(screen, text, tx, ty)
}

func (c *Console) drawWarnings(screen *ebiten.Image) {
	printAt(screen, "Warnings", twinX, warningsY-lineHeight-2)
	if len(c.warnings) == 0 {
		printAt(screen, "No warnings.", twinX, warningsY)
		return
	}
	y := warningsY
	for _, w := range c.warnings {
		lines := wrapText("- "+w, rightColumn/glyphWidth)
		fillRect(screen, image.Rect(twinX-4, y, twinX+rightColumn, y+len(lines)*lineHeight), colorWarning)
		for _, l := range lines {
			printAt(screen, l, twinX, y)
			y += lineHeight
		}
		y += 4
	}
}

func (c *Console) drawLogs(screen *ebiten.Image) {
	printAt(screen, "Log", logsX, logsY-lineHeight-2)
	for i, l := range c.state.Logs {
		printAt(screen, l, logsX, logsY+i*lineHeight)
	}
}

func (c *Console) drawDebug(screen *ebiten.Image) {
	tps := ebiten.ActualTPS()
	if tps < 0 {
		tps = 0
	}
	msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nRender: %.2f ms (%s)",
		ebiten.ActualFPS(), tps, c.lastRender.Seconds()*1000, c.synth.Name())
	ebitenutil.DebugPrintAt(screen, msg, windowW-200, 8)
}

// wrapText breaks s on spaces into lines of at most width characters. Words
// longer than width are kept whole.
func wrapText(s string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Layout reports the logical screen size used by Ebiten.
func (c *Console) Layout(_, _ int) (int, int) { return windowW, windowH }
