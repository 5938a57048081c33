package main

import (
	"context"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"twinconsole/internal/console"
	"twinconsole/internal/frame"
)

type consoleOptions struct {
	useOpenCL bool
	debug     bool
	seed      int64
	exportDir string
}

// Console is the interactive window: the operator state, the frame it renders
// and the widgets editing it.
type Console struct {
	state   console.State
	sliders []console.Slider

	synth      frameSynthesizer
	noise      frame.Noise
	frame      *image.RGBA
	canvas     *ebiten.Image
	dirty      bool
	lastRender time.Duration
	warnings   []string

	focus    int
	dragging int

	exportDir string
	saving    bool
	saved     chan saveResult
	status    string
	statusAt  time.Time

	debug bool
}

func newConsole(opts consoleOptions) *Console {
	c := &Console{
		state:     console.NewState(),
		sliders:   console.Sliders(),
		synth:     newSynthesizer(opts.useOpenCL, canvasW, canvasH),
		noise:     frame.NewNoise(opts.seed),
		frame:     image.NewRGBA(image.Rect(0, 0, canvasW, canvasH)),
		canvas:    ebiten.NewImage(canvasW, canvasH),
		dirty:     true,
		dragging:  -1,
		exportDir: opts.exportDir,
		saved:     make(chan saveResult, 1),
		debug:     opts.debug,
	}
	logger.Infof("console started (backend %s, seed %d)", c.synth.Name(), opts.seed)
	return c
}

// Update applies operator input and re-renders the frame when the params
// changed.
func (c *Console) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	c.collectSave()
	c.setParams(c.handleControls(c.state.Params))

	if c.dirty {
		c.render()
	}
	return nil
}

// setParams moves the console to p; unchanged params keep the current frame.
func (c *Console) setParams(p frame.Params) {
	if p == c.state.Params {
		return
	}
	c.state = c.state.WithParams(p)
	c.dirty = true
	logger.Debugf("params: %s", p)
}

// render synthesizes the current params into the canvas. A failing device
// backend is dropped for the CPU one.
func (c *Console) render() {
	p := c.state.Params
	start := time.Now()
	if err := c.synth.Synthesize(c.frame, p, c.noise); err != nil {
		logger.Errorf("%s synthesizer failed, switching to the CPU: %v", c.synth.Name(), err)
		c.synth.Close()
		c.synth = cpuSynthesizer{}
		_ = c.synth.Synthesize(c.frame, p, c.noise)
	}
	c.lastRender = time.Since(start)
	c.warnings = frame.Warnings(p)
	measureRender(context.Background(), c.synth.Name(), c.lastRender, len(c.warnings))

	c.canvas.WritePixels(c.frame.Pix)
	c.dirty = false
}

// setStatus shows a transient message under the save button.
func (c *Console) setStatus(msg string) {
	c.status = msg
	c.statusAt = time.Now()
}

// Close releases the synthesizer.
func (c *Console) Close() {
	c.synth.Close()
}
