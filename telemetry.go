package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	meterName = "twinconsole"

	renderDurationName = "frame.render.duration"
	renderWarningsName = "frame.warnings"

	// backendAttr labels every record with the synthesizer that produced the
	// frame ("cpu" or "opencl").
	backendAttr = "frame.backend"
)

var (
	// renderDuration measures one synthesis call, binning included.
	renderDuration metric.Float64Histogram
	// renderWarnings counts the warnings raised by rendered parameter sets.
	renderWarnings metric.Int64Counter
)

func init() {
	// Bound to the global no-op meter until installTelemetry runs.
	if err := bindInstruments(otel.Meter(meterName)); err != nil {
		panic(fmt.Sprintf("twinconsole: %v", err))
	}
}

func bindInstruments(meter metric.Meter) error {
	d, err := meter.Float64Histogram(
		renderDurationName,
		metric.WithDescription("The duration of a single frame synthesis, including binning."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("failed to init '%s' instrument: %w", renderDurationName, err)
	}

	w, err := meter.Int64Counter(
		renderWarningsName,
		metric.WithDescription("The number of operator warnings raised by rendered parameter sets."),
	)
	if err != nil {
		return fmt.Errorf("failed to init '%s' instrument: %w", renderWarningsName, err)
	}

	renderDuration, renderWarnings = d, w
	return nil
}

// measureRender records the duration of one render and the warnings its
// params raised.
func measureRender(ctx context.Context, backend string, d time.Duration, warnings int) {
	attrs := attribute.NewSet(attribute.String(backendAttr, backend))
	renderDuration.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributeSet(attrs))
	if warnings > 0 {
		renderWarnings.Add(ctx, int64(warnings), metric.WithAttributeSet(attrs))
	}
}

// telemetry holds the SDK providers installed for one command run. Metrics
// are pulled on demand through a manual reader; finished spans are logged.
type telemetry struct {
	reader  *sdkmetric.ManualReader
	meters  *sdkmetric.MeterProvider
	tracers *sdktrace.TracerProvider
}

// installTelemetry installs fresh meter and tracer providers globally and
// rebinds the render instruments to them.
func installTelemetry() (*telemetry, error) {
	reader := sdkmetric.NewManualReader()
	t := &telemetry{
		reader:  reader,
		meters:  sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		tracers: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanLogger{})),
	}
	if err := bindInstruments(t.meters.Meter(meterName)); err != nil {
		return nil, err
	}
	otel.SetMeterProvider(t.meters)
	otel.SetTracerProvider(t.tracers)
	return t, nil
}

func (t *telemetry) shutdown(ctx context.Context) error {
	return errors.Join(t.meters.Shutdown(ctx), t.tracers.Shutdown(ctx))
}

// renderStat summarizes the renders of one backend.
type renderStat struct {
	Backend  string
	Count    uint64
	TotalMs  float64
	Warnings int64
}

func (s renderStat) MeanMs() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalMs / float64(s.Count)
}

// renderStats collects the render instruments, one entry per backend sorted
// by name.
func (t *telemetry) renderStats(ctx context.Context) ([]renderStat, error) {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}

	byBackend := make(map[string]*renderStat)
	stat := func(attrs attribute.Set) *renderStat {
		backend := ""
		if v, ok := attrs.Value(backendAttr); ok {
			backend = v.AsString()
		}
		s, ok := byBackend[backend]
		if !ok {
			s = &renderStat{Backend: backend}
			byBackend[backend] = s
		}
		return s
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Histogram[float64]:
				if m.Name != renderDurationName {
					continue
				}
				for _, dp := range data.DataPoints {
					s := stat(dp.Attributes)
					s.Count += dp.Count
					s.TotalMs += dp.Sum
				}
			case metricdata.Sum[int64]:
				if m.Name != renderWarningsName {
					continue
				}
				for _, dp := range data.DataPoints {
					stat(dp.Attributes).Warnings += dp.Value
				}
			}
		}
	}

	stats := make([]renderStat, 0, len(byBackend))
	for _, s := range byBackend {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Backend < stats[j].Backend })
	return stats, nil
}

// spanLogger reports every finished span at debug level.
type spanLogger struct{}

func (spanLogger) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (spanLogger) OnEnd(s sdktrace.ReadOnlySpan) {
	logger.Debugf("span %s: %s (%s)", s.Name(), s.EndTime().Sub(s.StartTime()), s.Status().Code)
}

func (spanLogger) Shutdown(context.Context) error   { return nil }
func (spanLogger) ForceFlush(context.Context) error { return nil }
