package match

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

const tracerName = "pyforge/match"

// Transformation is a stateful run of a ruleset over one tree. A fresh
// Transformation is used per tree; the hooks see the root before and after
// the visit.
type Transformation struct {
	Ruleset *Ruleset

	// OnStart runs before the visit with the root about to be rewritten.
	OnStart func(root node.Node)

	// OnFinish runs after the visit and may replace the rewritten root.
	// When nil the rewritten root is kept.
	OnFinish func(root node.Node) node.Node

	// Logger receives rewrite records. When nil, a discard logger is used.
	Logger *slog.Logger

	// Tracer creates the rewrite span. When nil, falls back to otel.Tracer("pyforge/match").
	Tracer trace.Tracer

	rewrites map[string]int
}

// NewTransformation creates a transformation driving rs.
func NewTransformation(rs *Ruleset) *Transformation {
	return &Transformation{Ruleset: rs}
}

func (tr *Transformation) logger() *slog.Logger {
	if tr.Logger != nil {
		return tr.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (tr *Transformation) tracer() trace.Tracer {
	if tr.Tracer != nil {
		return tr.Tracer
	}

	return otel.Tracer(tracerName)
}

// Run visits root with the ruleset between the start and finish hooks and
// returns the rewritten root.
func (tr *Transformation) Run(ctx context.Context, root node.Node) (node.Node, error) {
	_, span := tr.tracer().Start(ctx, "pyforge.rewrite",
		trace.WithAttributes(attribute.String("pyforge.root", string(kindOf(root)))))
	defer span.End()

	rs := tr.Ruleset
	if rs == nil {
		rs = NewRuleset()
	}

	counts := make(map[string]int)
	observe := func(rule *Rule) {
		counts[rule.Name]++

		if rs.observer != nil {
			rs.observer(rule)
		}
	}

	defer func() { tr.rewrites = counts }()

	if tr.OnStart != nil {
		tr.OnStart(root)
	}

	result, err := rs.visit(root, observe)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tr.logger().Error("rewrite failed", "root", string(kindOf(root)), "error", err)

		return result, err
	}

	if tr.OnFinish != nil {
		result = tr.OnFinish(result)
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	span.SetAttributes(attribute.Int("pyforge.rewrites", total))
	tr.logger().Debug("rewrite finished", "root", string(kindOf(root)), "rewrites", total)

	return result, nil
}

// Rewrites returns how often each rule fired during the last Run.
func (tr *Transformation) Rewrites() map[string]int {
	out := make(map[string]int, len(tr.rewrites))
	for name, count := range tr.rewrites {
		out[name] = count
	}

	return out
}

// Total returns the number of rewrites applied during the last Run.
func (tr *Transformation) Total() int {
	total := 0
	for _, count := range tr.rewrites {
		total += count
	}

	return total
}

func kindOf(n node.Node) node.Kind {
	if isNil(n) {
		return ""
	}

	return n.Kind()
}
