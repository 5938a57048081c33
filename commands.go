package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"twinconsole/internal/console"
	"twinconsole/internal/export"
	"twinconsole/internal/frame"
)

// sweepParams names the sweepable parameters, in console.Sliders order.
var sweepParams = []string{"incidence", "beam-x", "beam-y", "distance", "tilt", "exposure"}

func sweepParamNames() string {
	return strings.Join(sweepParams, ", ")
}

// sweepSlider returns the slider editing the named parameter.
func sweepSlider(name string) (console.Slider, error) {
	for i, n := range sweepParams {
		if n == name {
			return console.Sliders()[i], nil
		}
	}
	return console.Slider{}, fmt.Errorf("unknown sweep parameter %q (want one of %s)", name, sweepParamNames())
}

// paramsFromFlags reads the instrument parameters of a headless command.
func paramsFromFlags(ctx *cli.Context) (frame.Params, error) {
	p := frame.Params{
		IncidenceDeg:       ctx.Float64("incidence"),
		BeamCenterX:        ctx.Float64("beam-x"),
		BeamCenterY:        ctx.Float64("beam-y"),
		DetectorDistanceMm: ctx.Float64("distance"),
		TiltDeg:            ctx.Float64("tilt"),
		ExposureMs:         ctx.Float64("exposure"),
		Binning:            ctx.Int("binning"),
	}
	if p.Binning <= 0 {
		return p, fmt.Errorf("invalid binning factor %d", p.Binning)
	}
	return p, nil
}

func frameSize(ctx *cli.Context) (int, int, error) {
	w, h := ctx.Int("width"), ctx.Int("height")
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid frame size %dx%d", w, h)
	}
	return w, h, nil
}

// seedFromFlags returns --seed when given, zero included, and a time based
// seed otherwise.
func seedFromFlags(ctx *cli.Context) int64 {
	if ctx.IsSet("seed") {
		return ctx.Int64("seed")
	}
	return time.Now().UnixNano()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

// Render a single frame headless and store it in the frame sink.
func renderFrame(ctx *cli.Context) error {
	p, err := paramsFromFlags(ctx)
	if err != nil {
		return err
	}
	w, h, err := frameSize(ctx)
	if err != nil {
		return err
	}
	seed := seedFromFlags(ctx)

	synth := newSynthesizer(ctx.Bool("opencl"), w, h)
	defer synth.Close()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	start := time.Now()
	if err := synth.Synthesize(img, p, frame.NewNoise(seed)); err != nil {
		return fmt.Errorf("synthesizing frame: %w", err)
	}
	warnings := frame.Warnings(p)
	measureRender(context.Background(), synth.Name(), time.Since(start), len(warnings))
	logger.Infof("rendered %dx%d frame on %s in %s", w, h, synth.Name(), time.Since(start))

	sink, err := export.Open(context.Background(), ctx.String("out"))
	if err != nil {
		return err
	}
	defer sink.Close()

	name := ctx.String("name")
	if err := sink.WriteFrame(context.Background(), name, img, p); err != nil {
		return err
	}
	logger.Noticef("wrote %s to %s (seed %d): %s", name, sink, seed, p)
	for _, msg := range warnings {
		logger.Warning(msg)
	}
	return nil
}

// Print the warnings raised by a parameter set.
func printWarnings(ctx *cli.Context) error {
	p, err := paramsFromFlags(ctx)
	if err != nil {
		return err
	}
	return writeWarnings(ctx.App.Writer, p)
}

func writeWarnings(w io.Writer, p frame.Params) error {
	if _, err := fmt.Fprintln(w, p); err != nil {
		return err
	}
	warnings := frame.Warnings(p)
	if len(warnings) == 0 {
		_, err := fmt.Fprintln(w, "No warnings.")
		return err
	}
	table := newTable(w, "#", "Warning")
	for i, msg := range warnings {
		table.Append([]string{fmt.Sprintf("%d", i+1), msg})
	}
	table.Render()
	return nil
}

type sweepResult struct {
	name     string
	value    float64
	elapsed  time.Duration
	warnings int
}

// sweepValues spreads steps values linearly over [from, to].
func sweepValues(from, to float64, steps int) []float64 {
	if steps == 1 {
		return []float64{from}
	}
	values := make([]float64, steps)
	for i := range values {
		values[i] = from + (to-from)*float64(i)/float64(steps-1)
	}
	return values
}

// Render one frame per value of the swept parameter. All frames share the
// noise seed so they differ only by the swept parameter.
func sweepFrames(ctx *cli.Context) error {
	base, err := paramsFromFlags(ctx)
	if err != nil {
		return err
	}
	w, h, err := frameSize(ctx)
	if err != nil {
		return err
	}
	slider, err := sweepSlider(ctx.String("param"))
	if err != nil {
		return err
	}
	steps := ctx.Int("steps")
	if steps <= 0 {
		return fmt.Errorf("invalid step count %d", steps)
	}
	workers := ctx.Int("workers")
	if workers <= 0 {
		workers = 1
	}
	seed := seedFromFlags(ctx)
	prefix := ctx.String("prefix")

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink, err := export.Open(sigCtx, ctx.String("out"))
	if err != nil {
		return err
	}
	defer sink.Close()

	values := sweepValues(ctx.Float64("from"), ctx.Float64("to"), steps)
	results := make([]sweepResult, len(values))
	var done atomic.Int32

	g, gctx := errgroup.WithContext(sigCtx)
	g.SetLimit(workers)
	for i, v := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := slider.Set(base, v)
			name := fmt.Sprintf("%s-%03d.png", prefix, i)

			start := time.Now()
			img := frame.Render(p, w, h, frame.NewNoise(seed))
			elapsed := time.Since(start)
			warnings := len(frame.Warnings(p))
			measureRender(gctx, "cpu", elapsed, warnings)

			if err := sink.WriteFrame(gctx, name, img, p); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			results[i] = sweepResult{name: name, value: v, elapsed: elapsed, warnings: warnings}
			logger.Debugf("sweep %d/%d: %s", done.Add(1), len(values), name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	table := newTable(ctx.App.Writer, "Frame", slider.Label, "Render time", "Warnings")
	for _, r := range results {
		table.Append([]string{
			r.name,
			fmt.Sprintf("%g", r.value),
			r.elapsed.Round(time.Microsecond).String(),
			fmt.Sprintf("%d", r.warnings),
		})
	}
	if footer, ok := sweepFooter(sigCtx); ok {
		table.SetFooter(footer)
	}
	table.Render()
	logger.Noticef("wrote %d frames to %s (seed %d)", len(results), sink, seed)
	return nil
}

// sweepFooter summarizes the CPU renders recorded by the render histogram.
func sweepFooter(ctx context.Context) ([]string, bool) {
	if tel == nil {
		return nil, false
	}
	stats, err := tel.renderStats(ctx)
	if err != nil {
		logger.Warningf("sweep statistics unavailable: %v", err)
		return nil, false
	}
	for _, s := range stats {
		if s.Backend == "cpu" {
			return []string{
				"",
				"TOTAL",
				fmt.Sprintf("%.2f ms (mean %.2f ms)", s.TotalMs, s.MeanMs()),
				fmt.Sprintf("%d", s.Warnings),
			}, true
		}
	}
	return nil, false
}

// List the OpenCL devices the synthesizer could run on.
func listDevices(ctx *cli.Context) error {
	devices, err := listOpenCLDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		logger.Warning("no OpenCL devices found")
		return nil
	}
	table := newTable(ctx.App.Writer, "Platform", "Device", "Type")
	for _, d := range devices {
		table.Append([]string{d.Platform, d.Name, d.Kind})
	}
	table.Render()
	return nil
}

// Open the interactive console window.
func runConsole(ctx *cli.Context) error {
	exportDir := ctx.String("export-dir")
	if exportDir == "" {
		exportDir = defaultExportDir
	}

	c := newConsole(consoleOptions{
		useOpenCL: ctx.Bool("opencl"),
		debug:     ctx.Bool("debug"),
		seed:      seedFromFlags(ctx),
		exportDir: exportDir,
	})
	defer c.Close()

	ebiten.SetWindowSize(windowW*windowScale, windowH*windowScale)
	ebiten.SetWindowTitle("GIWAXS Parameter Effects Console")
	ebiten.SetTPS(defaultTPS)
	if err := ebiten.RunGame(c); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
