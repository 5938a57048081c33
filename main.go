package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "twinconsole"
	app.Usage = "GIWAXS parameter effects console (demo renderer, not physics-accurate)"
	app.Version = "0.1.0"
	// The default action opens the console, so the root accepts its flags too.
	app.Flags = append(append([]cli.Flag{}, globalFlags...), consoleFlags...)
	app.Before = setup
	app.After = teardown
	app.Action = runConsole
	app.Commands = []cli.Command{
		{
			Name:  "console",
			Usage: "open the interactive console",
			Description: `
Adjust acquisition and geometry parameters with the sliders; the simulated
frame, visual twin, warnings and log update on every change.

Keys: Tab/Up/Down select a slider, Left/Right nudge it, 1/2/4 pick the
binning, S saves the current frame, Esc or Q quits.`,
			Flags:  consoleFlags,
			Action: runConsole,
		},
		{
			Name:  "render",
			Usage: "render a single frame to the frame sink",
			Description: `
Render one frame headless and store it as PNG. The destination is a local
directory or any gocloud blob URL.`,
			Flags:  renderFlags,
			Action: renderFrame,
		},
		{
			Name:   "warnings",
			Usage:  "print the warnings raised by a parameter set",
			Flags:  paramFlags,
			Action: printWarnings,
		},
		{
			Name:  "sweep",
			Usage: "render a series of frames across one parameter",
			Description: `
Vary a single parameter linearly between --from and --to and store one frame
per step. Frames are rendered on the CPU, several at a time.`,
			Flags:  sweepFlags,
			Action: sweepFrames,
		},
		{
			Name:   "list-devices",
			Usage:  "list available opencl devices",
			Action: listDevices,
		},
	}
	return app
}
