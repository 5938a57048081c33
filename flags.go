package main

import (
	"runtime"

	"github.com/urfave/cli"

	"twinconsole/internal/frame"
)

var defaults = frame.DefaultParams()

// Global flags shared by every command.
var globalFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "v",
		Usage: "enable verbose logging",
	},
	cli.BoolFlag{
		Name:  "vv",
		Usage: "enable even more verbose logging",
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: "log verbosity: debug, info, notice, warning or error (overrides -v/-vv)",
	},
	// cpuprofile records a CPU profile for the lifetime of the command.
	cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "write a CPU profile to this file",
	},
	cli.StringFlag{
		Name:  "memprofile",
		Usage: "write a heap profile to this file when the command ends",
	},
	cli.BoolFlag{
		Name:  "metrics",
		Usage: "print per-backend render statistics when the command ends",
	},
}

// paramFlags expose the instrument parameters on headless commands. Values
// outside the console's slider ranges are accepted.
var paramFlags = []cli.Flag{
	cli.Float64Flag{
		Name:  "incidence",
		Value: defaults.IncidenceDeg,
		Usage: "incidence angle (deg, 0.05-1.0 in the console)",
	},
	cli.Float64Flag{
		Name:  "beam-x",
		Value: defaults.BeamCenterX,
		Usage: "beam center X as a fraction of the frame width",
	},
	cli.Float64Flag{
		Name:  "beam-y",
		Value: defaults.BeamCenterY,
		Usage: "beam center Y as a fraction of the frame height",
	},
	cli.Float64Flag{
		Name:  "distance",
		Value: defaults.DetectorDistanceMm,
		Usage: "detector distance (mm)",
	},
	cli.Float64Flag{
		Name:  "tilt",
		Value: defaults.TiltDeg,
		Usage: "detector tilt (deg)",
	},
	cli.Float64Flag{
		Name:  "exposure",
		Value: defaults.ExposureMs,
		Usage: "exposure (ms)",
	},
	cli.IntFlag{
		Name:  "binning",
		Value: defaults.Binning,
		Usage: "binning factor (1, 2 or 4)",
	},
}

// frameFlags control the size and reproducibility of headless renders.
var frameFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: canvasW,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: canvasH,
		Usage: "frame height",
	},
	cli.Int64Flag{
		Name:  "seed",
		Usage: "noise seed; a time based seed when unset",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: defaultExportDir,
		Usage: "frame sink: a directory or a gocloud blob URL (file://, mem://)",
	},
}

// openCLFlag selects the OpenCL synthesizer when the binary is built with
// -tags opencl.
var openCLFlag = cli.BoolFlag{
	Name:  "opencl",
	Usage: "synthesize frames on an OpenCL device (falls back to the CPU)",
}

var consoleFlags = []cli.Flag{
	openCLFlag,
	// debug enables the FPS and render-time overlay.
	cli.BoolFlag{
		Name:  "debug",
		Usage: "show FPS and render time overlay",
	},
	cli.Int64Flag{
		Name:  "seed",
		Usage: "noise seed; a time based seed when unset",
	},
	cli.StringFlag{
		Name:  "export-dir",
		Value: defaultExportDir,
		Usage: "default directory offered when saving frames",
	},
}

var renderFlags = append(append([]cli.Flag{
	openCLFlag,
	cli.StringFlag{
		Name:  "name",
		Value: "frame.png",
		Usage: "object name of the rendered frame",
	},
}, frameFlags...), paramFlags...)

var sweepFlags = append(append([]cli.Flag{
	cli.StringFlag{
		Name:  "param",
		Value: "exposure",
		Usage: "parameter to sweep: " + sweepParamNames(),
	},
	cli.Float64Flag{
		Name:  "from",
		Value: 50,
		Usage: "first value of the swept parameter",
	},
	cli.Float64Flag{
		Name:  "to",
		Value: 800,
		Usage: "last value of the swept parameter",
	},
	cli.IntFlag{
		Name:  "steps",
		Value: 8,
		Usage: "number of frames",
	},
	cli.IntFlag{
		Name:  "workers",
		Value: runtime.NumCPU(),
		Usage: "frames rendered concurrently",
	},
	cli.StringFlag{
		Name:  "prefix",
		Value: "sweep",
		Usage: "object name prefix for the sweep frames",
	},
}, frameFlags...), paramFlags...)
