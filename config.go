package main

import "time"

// Window and panel geometry for the console, plus runtime defaults. The canvas
// matches the frame size the placeholder renderer was designed around.
const (
	windowW, windowH = 1300, 680
	windowScale      = 1

	canvasW, canvasH = 560, 420
	canvasX, canvasY = 340, 70

	panelX        = 20
	panelY        = 70
	sliderTrackW  = 280
	sliderRowH    = 50
	sliderTrackDY = 24
	sliderTrackH  = 6
	sliderKnobR   = 7
	sliderHitPad  = 8

	buttonW   = 60
	buttonH   = 28
	buttonGap = 10
	saveBtnW  = 130

	twinX, twinY = 920, 70
	twinW, twinH = 360, 152

	warningsY   = 250
	logsX       = canvasX
	logsY       = canvasY + canvasH + 40
	lineHeight  = 16
	glyphWidth  = 6
	rightColumn = 360

	keyRepeatDelay    = 20
	keyRepeatInterval = 3

	defaultTPS       = 60.0
	defaultExportDir = "frames"
	statusTTL        = 4 * time.Second
)
