package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/pyforge/internal/observability"
)

func TestAttributeFilterKeepsAllowList(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), nil)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "pyforge.parse")
	span.SetAttributes(
		attribute.String("pyforge.mode", "exec"),
		attribute.String("error.type", "syntax"),
		attribute.String("source", "password = 'hunter2'"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	keys := map[string]bool{}
	for _, kv := range spans[0].Attributes {
		keys[string(kv.Key)] = true
	}

	assert.True(t, keys["pyforge.mode"])
	assert.True(t, keys["error.type"])
	assert.False(t, keys["source"])
}

func TestAttributeFilterClipsLongValues(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()

	var logs bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	for range 2 {
		_, span := tp.Tracer("test").Start(context.Background(), "pyforge.rewrite")
		span.SetAttributes(
			attribute.String("pyforge.rule", strings.Repeat("r", 100)),
			attribute.Int("pyforge.rewrites", 3),
			attribute.String("file.body", "x = 1"),
		)
		span.End()
	}

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	require.Len(t, spans[0].Attributes, 2)

	rule := spans[0].Attributes[0].Value.AsString()
	assert.Equal(t, strings.Repeat("r", 64)+"…", rule)
	assert.Equal(t, int64(3), spans[0].Attributes[1].Value.AsInt64())

	assert.Equal(t, 1, strings.Count(logs.String(), "file.body"))
}

func TestFilteringTracerProviderSuppressesHotSpans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	base := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter), sdktrace.WithSampler(sdktrace.AlwaysSample()))

	tracer := observability.NewFilteringTracerProvider(base).Tracer("pyforge/pyast")

	for _, name := range []string{"pyforge.parse", "pyforge.finalize", "pyforge.render", "pyforge.compile"} {
		_, span := tracer.Start(context.Background(), name)
		span.End()
	}

	names := make([]string, 0, 2)
	for _, span := range exporter.GetSpans() {
		names = append(names, span.Name)
	}

	assert.ElementsMatch(t, []string{"pyforge.parse", "pyforge.compile"}, names)
}
