package emitter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cloudreaper/reap/types"
)

// PrometheusEmitter records run results via OTel instruments, exported
// through the Prometheus registry the daemon serves.
type PrometheusEmitter struct {
	meter metric.Meter

	reclaimedTotal metric.Int64Counter
	rejectedTotal  metric.Int64Counter
	erroredTotal   metric.Int64Counter
	runDuration    metric.Float64Histogram
}

// NewPrometheusEmitter creates the emitter and its instruments.
func NewPrometheusEmitter() (*PrometheusEmitter, error) {
	e := &PrometheusEmitter{meter: otel.Meter("reap")}

	var err error
	e.reclaimedTotal, err = e.meter.Int64Counter(
		"reap_resources_reclaimed_total",
		metric.WithDescription("Resources deleted or stopped"),
	)
	if err != nil {
		return nil, fmt.Errorf("create reclaimed counter: %w", err)
	}
	e.rejectedTotal, err = e.meter.Int64Counter(
		"reap_resources_rejected_total",
		metric.WithDescription("Resources evaluated but kept"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rejected counter: %w", err)
	}
	e.erroredTotal, err = e.meter.Int64Counter(
		"reap_resources_errored_total",
		metric.WithDescription("Resources whose mutation failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errored counter: %w", err)
	}
	e.runDuration, err = e.meter.Float64Histogram(
		"reap_run_duration_seconds",
		metric.WithDescription("Duration of one (cloud, kind) sweep"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	return e, nil
}

// Emit records one run result.
func (e *PrometheusEmitter) Emit(ctx context.Context, result types.RunResult) error {
	attrs := metric.WithAttributes(
		attribute.String("provider", result.Provider),
		attribute.String("kind", string(result.Kind)),
		attribute.String("operation", string(result.Operation)),
		attribute.Bool("dry_run", result.DryRun),
	)

	e.reclaimedTotal.Add(ctx, int64(len(result.Accepted)), attrs)
	e.rejectedTotal.Add(ctx, int64(len(result.Rejected)), attrs)
	e.erroredTotal.Add(ctx, int64(len(result.Errored)), attrs)
	e.runDuration.Record(ctx, result.Duration.Seconds(), attrs)
	return nil
}

// Close is a no-op; the meter provider owns the exporter lifecycle.
func (e *PrometheusEmitter) Close() error { return nil }
