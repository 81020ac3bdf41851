package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span represents a single named and timed operation of a workflow.
type Span struct {
	recorder *Recorder
	ctx      context.Context
	span     trace.Span
	logger   *slog.Logger
}

// StartSpan starts a new span.
func (r *Recorder) StartSpan(
	ctx context.Context,
	name string,
	attrs ...Attr,
) (context.Context, *Span) {
	ctx, span := r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(asAttrKeyValues(r.attrs)...),
		trace.WithAttributes(asAttrKeyValues(attrs)...),
	)

	loggerAttrs := []any{
		slog.String("span_name", name),
	}

	if sctx := span.SpanContext(); sctx.HasSpanID() {
		loggerAttrs = append(
			loggerAttrs,
			slog.String("span_id", sctx.SpanID().String()),
		)
	}

	loggerAttrs = append(loggerAttrs, asLoggerAttrs(attrs)...)

	return ctx, &Span{
		r,
		ctx,
		span,
		r.logger.With(loggerAttrs...),
	}
}

// End completes the span.
func (s *Span) End() {
	s.span.End()
}

// SetAttributes sets attributes on the span.
//
// The attributes are also included in any subsequent log messages.
func (s *Span) SetAttributes(attrs ...Attr) {
	s.span.SetAttributes(asAttrKeyValues(attrs)...)
	s.logger = s.logger.With(asLoggerAttrs(attrs)...)
}

// Debug logs a debug-level event.
func (s *Span) Debug(message string, attrs ...Attr) {
	s.event(slog.LevelDebug, message, attrs)
}

// Info logs an info-level event.
func (s *Span) Info(message string, attrs ...Attr) {
	s.event(slog.LevelInfo, message, attrs)
}

// Warn logs a warning-level event.
func (s *Span) Warn(message string, attrs ...Attr) {
	s.event(slog.LevelWarn, message, attrs)
}

// Error logs an error-level event.
//
// It marks the span as an error and increments the "errors" metric.
func (s *Span) Error(message string, err error, attrs ...Attr) {
	s.span.SetStatus(codes.Error, err.Error())
	s.span.RecordError(err, trace.WithAttributes(asAttrKeyValues(attrs)...))
	s.recorder.errors.Add(s.ctx, 1)

	if !s.logger.Enabled(s.ctx, slog.LevelError) {
		return
	}

	s.logger.Log(
		s.ctx,
		slog.LevelError,
		message,
		append(
			asLoggerAttrs(attrs),
			slog.String("error", err.Error()),
		)...,
	)
}

func (s *Span) event(level slog.Level, message string, attrs []Attr) {
	if !s.logger.Enabled(s.ctx, level) {
		return
	}

	s.span.AddEvent(
		message,
		trace.WithAttributes(attribute.String("level", level.String())),
		trace.WithAttributes(asAttrKeyValues(attrs)...),
	)

	s.logger.Log(s.ctx, level, message, asLoggerAttrs(attrs)...)
}
