package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// maxAttributeValueLen caps exported string values.
const maxAttributeValueLen = 64

// allowedPrefixes are the attribute key prefixes exported with spans.
var allowedPrefixes = []string{"pyforge.", "error.", "exception."}

// attributeFilter drops span attributes outside the allow-list and clips
// long string values before a span reaches the delegate.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
	warned   sync.Map
}

// NewAttributeFilter returns a SpanProcessor that filters span attributes.
// When logger is non-nil, each dropped key is logged once at warn level.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, attrs: f.filter(s.Attributes())})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	if err := f.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	if err := f.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) filter(attrs []attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))

	for _, kv := range attrs {
		key := string(kv.Key)

		if !allowedKey(key) {
			if _, seen := f.warned.LoadOrStore(key, true); !seen && f.logger != nil {
				f.logger.Warn("span attribute dropped", "key", key)
			}

			continue
		}

		out = append(out, clip(kv))
	}

	return out
}

func allowedKey(key string) bool {
	if key == "error" {
		return true
	}

	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}

	return false
}

func clip(kv attribute.KeyValue) attribute.KeyValue {
	if kv.Value.Type() != attribute.STRING {
		return kv
	}

	value := []rune(kv.Value.AsString())
	if len(value) <= maxAttributeValueLen {
		return kv
	}

	return kv.Key.String(string(value[:maxAttributeValueLen]) + "…")
}

// filteredSpan exposes the filtered attributes of a finished span.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	return s.attrs
}
