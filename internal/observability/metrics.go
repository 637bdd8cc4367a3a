package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal    = "pyforge.files.total"
	metricRewritesTotal = "pyforge.rewrites.total"
	metricOpDuration    = "pyforge.op.duration.seconds"

	attrOp     = "op"
	attrStatus = "status"
	attrRule   = "rule"

	// StatusOK marks a file processed without error.
	StatusOK = "ok"
	// StatusError marks a file that failed.
	StatusError = "error"
)

// durationBucketBoundaries covers 1ms to 60s: single files parse in
// milliseconds, interpreter runs take seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Metrics holds the pyforge instruments.
type Metrics struct {
	filesTotal    metric.Int64Counter
	rewritesTotal metric.Int64Counter
	opDuration    metric.Float64Histogram
}

// NewMetrics creates the pyforge instruments from mt.
func NewMetrics(mt metric.Meter) (*Metrics, error) {
	var (
		m    Metrics
		errs []error
	)

	created := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", name, err))
		}
	}

	var err error

	m.filesTotal, err = mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Source files processed"), metric.WithUnit("{file}"))
	created(metricFilesTotal, err)

	m.rewritesTotal, err = mt.Int64Counter(metricRewritesTotal,
		metric.WithDescription("Rule rewrites applied"), metric.WithUnit("{rewrite}"))
	created(metricRewritesTotal, err)

	m.opDuration, err = mt.Float64Histogram(metricOpDuration,
		metric.WithDescription("Operation duration in seconds"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))
	created(metricOpDuration, err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &m, nil
}

// RecordFile records one processed file with its operation, status and duration.
func (m *Metrics) RecordFile(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	m.filesTotal.Add(ctx, 1, attrs)
	m.opDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRewrites adds per-rule rewrite counts.
func (m *Metrics) RecordRewrites(ctx context.Context, counts map[string]int) {
	for rule, count := range counts {
		if count <= 0 {
			continue
		}

		m.rewritesTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrRule, rule)))
	}
}
