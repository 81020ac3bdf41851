package telemetry

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/constraints"
)

// Attr is a telemetry attribute.
type Attr struct {
	key   string
	value attribute.Value
}

// String returns a string attribute.
func String[T ~string](k string, v T) Attr {
	return Attr{k, attribute.StringValue(string(v))}
}

// Stringer returns a string attribute. The value is the result of calling
// v.String().
func Stringer(k string, v fmt.Stringer) Attr {
	return String(k, v.String())
}

// Binary returns a string attribute containing v, represented as a Go string
// (with backslash escaped sequences). If the value is longer than 64 bytes, it
// is truncated to 64 bytes and the key is suffixed with "_truncated".
func Binary(k string, v []byte) Attr {
	if len(v) > 64 {
		v = v[:64]
		k += "_truncated"
	}

	return String(k, strconv.QuoteToASCII(string(v)))
}

// Type returns a string attribute set to the name of T.
func Type[T any](k string, v T) Attr {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return String(k, t.String())
}

// Bool returns a boolean attribute.
func Bool[T ~bool](k string, v T) Attr {
	return Attr{k, attribute.BoolValue(bool(v))}
}

// Int returns an int64 attribute.
func Int[T constraints.Integer](k string, v T) Attr {
	return Attr{k, attribute.Int64Value(int64(v))}
}

// If conditionally includes an attribute.
func If(cond bool, attr Attr) Attr {
	if cond {
		return attr
	}
	return Attr{}
}

func (a Attr) isZero() bool {
	return a.key == ""
}

func asAttrKeyValues(attrs []Attr) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))

	for _, attr := range attrs {
		if !attr.isZero() {
			kvs = append(kvs, attribute.KeyValue{
				Key:   attribute.Key(attr.key),
				Value: attr.value,
			})
		}
	}

	return kvs
}

func asLoggerAttrs(attrs []Attr) []any {
	out := make([]any, 0, len(attrs))

	for _, attr := range attrs {
		if attr.isZero() {
			continue
		}

		switch attr.value.Type() {
		case attribute.BOOL:
			out = append(out, slog.Bool(attr.key, attr.value.AsBool()))
		case attribute.INT64:
			out = append(out, slog.Int64(attr.key, attr.value.AsInt64()))
		default:
			out = append(out, slog.String(attr.key, attr.value.Emit()))
		}
	}

	return out
}
