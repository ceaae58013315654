// Package telemetry provides the logging, metrics and tracing facade shared
// across the library.
package telemetry

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/FerroO2000/valico"

var baseLogger = newBaseLogger()

func newBaseLogger() *slog.Logger {
	out := os.Stderr

	// Use the tinted handler only when writing to a terminal.
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		handler := tint.NewHandler(colorable.NewColorable(out), &tint.Options{
			TimeFormat: time.TimeOnly,
		})
		return slog.New(handler)
	}

	return slog.New(slog.NewTextHandler(out, nil))
}

// Telemetry bundles the logger, the meter and the tracer of a named
// component.
type Telemetry struct {
	logger *slog.Logger

	meter  metric.Meter
	tracer trace.Tracer

	metricPrefix string
}

// NewTelemetry returns the telemetry facade for the given scope/name pair.
func NewTelemetry(scope, name string) *Telemetry {
	return &Telemetry{
		logger: baseLogger.With("scope", scope, "name", name),

		meter:  otel.Meter(instrumentationName),
		tracer: otel.Tracer(instrumentationName),

		metricPrefix: scope + "_" + name + "_",
	}
}

// LogDebug logs a message at debug level.
func (t *Telemetry) LogDebug(msg string, args ...any) {
	t.logger.Debug(msg, args...)
}

// LogInfo logs a message at info level.
func (t *Telemetry) LogInfo(msg string, args ...any) {
	t.logger.Info(msg, args...)
}

// LogWarn logs a message at warn level.
func (t *Telemetry) LogWarn(msg string, args ...any) {
	t.logger.Warn(msg, args...)
}

// LogError logs a message and an error at error level.
func (t *Telemetry) LogError(msg string, err error, args ...any) {
	t.logger.Error(msg, append([]any{"error", err}, args...)...)
}

// NewCounter registers an observable counter fed by the given callback.
func (t *Telemetry) NewCounter(name string, callback func() int64) {
	_, err := t.meter.Int64ObservableCounter(
		t.metricPrefix+name,
		metric.WithInt64Callback(func(_ context.Context, obs metric.Int64Observer) error {
			obs.Observe(callback())
			return nil
		}),
	)
	if err != nil {
		t.LogError("failed to register counter", err, "counter", name)
	}
}

// NewTrace starts a new span with the given name.
func (t *Telemetry) NewTrace(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name)
}
