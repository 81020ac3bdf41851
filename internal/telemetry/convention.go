package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IODirection is the direction in which data moves between a journal store
// and its files.
type IODirection string

const (
	// ReadIO is the direction of operations that only inspect journal files.
	ReadIO IODirection = "read"

	// WriteIO is the direction of operations that modify journal files.
	WriteIO IODirection = "write"
)

// Option returns a metric option that attributes a measurement to d.
func (d IODirection) Option() metric.MeasurementOption {
	return metric.WithAttributeSet(
		attribute.NewSet(
			attribute.String("journal.io.direction", string(d)),
		),
	)
}

// Operation returns a metric option that attributes a measurement to the
// named store operation, which moves data in direction d.
func (d IODirection) Operation(op string) metric.MeasurementOption {
	return metric.WithAttributeSet(
		attribute.NewSet(
			attribute.String("journal.io.direction", string(d)),
			attribute.String("journal.operation", op),
		),
	)
}
