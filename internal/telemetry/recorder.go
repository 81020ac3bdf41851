package telemetry

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Recorder records traces, metrics and logs for a particular subsystem.
type Recorder struct {
	name   string
	attrs  []Attr
	tracer trace.Tracer
	meter  metric.Meter
	logger *slog.Logger

	errors metric.Int64Counter
}

// Int64Counter returns a new Int64Counter instrument.
func (r *Recorder) Int64Counter(
	name string,
	options ...metric.Int64CounterOption,
) metric.Int64Counter {
	c, err := r.meter.Int64Counter(r.name+"."+name, options...)
	if err != nil {
		panic(err)
	}
	return c
}

// Int64Histogram returns a new Int64Histogram instrument.
func (r *Recorder) Int64Histogram(
	name string,
	options ...metric.Int64HistogramOption,
) metric.Int64Histogram {
	h, err := r.meter.Int64Histogram(r.name+"."+name, options...)
	if err != nil {
		panic(err)
	}
	return h
}
