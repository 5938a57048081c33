package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"twinconsole/internal/log"
)

var logger = log.New("twinconsole")

// Per-run state created by setup and released by teardown.
var (
	tel  *telemetry
	prof *profiler
)

func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	return nil
}

// setup runs before any command.
func setup(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var err error
	if tel, err = installTelemetry(); err != nil {
		return err
	}

	cpu, mem := ctx.GlobalString("cpuprofile"), ctx.GlobalString("memprofile")
	if cpu != "" || mem != "" {
		if prof, err = startProfiling(cpu, mem); err != nil {
			return err
		}
		logger.Infof("profiling enabled (cpu %q, heap %q)", cpu, mem)
	}
	return nil
}

// teardown runs after the command returned.
func teardown(ctx *cli.Context) error {
	var errs []error
	if prof != nil {
		errs = append(errs, prof.stop())
		prof = nil
	}
	if tel != nil {
		if ctx.GlobalBool("metrics") {
			errs = append(errs, writeMetrics(ctx, tel))
		}
		errs = append(errs, tel.shutdown(context.Background()))
		tel = nil
	}
	return errors.Join(errs...)
}

// writeMetrics prints the render statistics gathered during the command.
func writeMetrics(ctx *cli.Context, t *telemetry) error {
	stats, err := t.renderStats(context.Background())
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		_, err := fmt.Fprintln(ctx.App.Writer, "No frames rendered.")
		return err
	}
	table := newTable(ctx.App.Writer, "Backend", "Frames", "Total", "Mean", "Warnings")
	for _, s := range stats {
		table.Append([]string{
			s.Backend,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f ms", s.TotalMs),
			fmt.Sprintf("%.2f ms", s.MeanMs()),
			fmt.Sprintf("%d", s.Warnings),
		})
	}
	table.Render()
	return nil
}
