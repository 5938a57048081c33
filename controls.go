package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"twinconsole/internal/console"
	"twinconsole/internal/frame"
)

// sliderTrack returns the track rectangle of slider i.
func sliderTrack(i int) image.Rectangle {
	y := panelY + i*sliderRowH + sliderTrackDY
	return image.Rect(panelX, y, panelX+sliderTrackW, y+sliderTrackH)
}

// sliderHitBox is the track enlarged so the knob is easy to grab.
func sliderHitBox(i int) image.Rectangle {
	return sliderTrack(i).Inset(-sliderHitPad)
}

func binningRowY() int {
	return panelY + len(console.Sliders())*sliderRowH + lineHeight
}

func binningButton(i int) image.Rectangle {
	x := panelX + i*(buttonW+buttonGap)
	y := binningRowY()
	return image.Rect(x, y, x+buttonW, y+buttonH)
}

func saveButton() image.Rectangle {
	y := binningRowY() + buttonH + 2*buttonGap
	return image.Rect(panelX, y, panelX+saveBtnW, y+buttonH)
}

// handleControls returns p after this tick's keyboard and mouse input.
func (c *Console) handleControls(p frame.Params) frame.Params {
	p = c.handleKeys(p)
	return c.handleMouse(p)
}

func (c *Console) handleKeys(p frame.Params) frame.Params {
	n := len(c.sliders)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab) && ebiten.IsKeyPressed(ebiten.KeyShift):
		c.focus = (c.focus + n - 1) % n
	case inpututil.IsKeyJustPressed(ebiten.KeyTab), repeatingKeyPressed(ebiten.KeyDown):
		c.focus = (c.focus + 1) % n
	case repeatingKeyPressed(ebiten.KeyUp):
		c.focus = (c.focus + n - 1) % n
	}

	if repeatingKeyPressed(ebiten.KeyLeft) {
		p = c.sliders[c.focus].Nudge(p, -1)
	}
	if repeatingKeyPressed(ebiten.KeyRight) {
		p = c.sliders[c.focus].Nudge(p, 1)
	}

	for key, b := range map[ebiten.Key]int{ebiten.Key1: 1, ebiten.Key2: 2, ebiten.Key4: 4} {
		if inpututil.IsKeyJustPressed(key) {
			p.Binning = b
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		c.saveFrame()
	}
	return p
}

func (c *Console) handleMouse(p frame.Params) frame.Params {
	cursor := image.Pt(ebiten.CursorPosition())

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i := range c.sliders {
			if cursor.In(sliderHitBox(i)) {
				c.dragging = i
				c.focus = i
			}
		}
		for i, b := range console.Binnings {
			if cursor.In(binningButton(i)) {
				p.Binning = b
			}
		}
		if cursor.In(saveButton()) {
			c.saveFrame()
		}
	}

	if c.dragging >= 0 {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			c.dragging = -1
			return p
		}
		track := sliderTrack(c.dragging)
		f := float64(cursor.X-track.Min.X) / float64(track.Dx())
		p = c.sliders[c.dragging].SetFraction(p, f)
	}
	return p
}

// repeatingKeyPressed fires once on press and then repeatedly while held.
func repeatingKeyPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}
