package pyast

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/match"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Language is a source-to-source pipeline: parse, finalize, rewrite with a
// transformation, finalize again, then render or compile.
type Language struct {
	Parser *Parser

	// Transformation rewrites the parsed tree. Nil leaves it unchanged.
	Transformation *match.Transformation

	// Mode forces the parse mode. Empty tries eval first and falls back to
	// exec, so a lone expression compiles to an Expression unit. Single
	// wraps the statements in an Interactive root.
	Mode node.Mode

	// Filename names compiled units. Empty means node.DefaultFilename.
	Filename string

	// Render controls the text output.
	Render node.RenderOptions
}

// NewLanguage creates a pipeline applying tr. tr may be nil.
func NewLanguage(parser *Parser, tr *match.Transformation) *Language {
	return &Language{Parser: parser, Transformation: tr, Render: node.DefaultRenderOptions()}
}

// Tree parses src and returns the rewritten, finalized root with its mode.
func (l *Language) Tree(ctx context.Context, src []byte) (node.Root, node.Mode, error) {
	root, mode, err := l.parse(ctx, src)
	if err != nil {
		return nil, "", err
	}

	ctx, span := l.Parser.tracerOrDefault().Start(ctx, "pyforge.finalize",
		trace.WithAttributes(attribute.String("pyforge.mode", string(mode))))
	finalized := node.FinalizeNode(root)
	span.End()

	if l.Transformation != nil {
		rewritten, err := l.Transformation.Run(ctx, finalized)
		if err != nil {
			return nil, "", fmt.Errorf("transform: %w", err)
		}

		finalized = node.FinalizeNode(rewritten)
	}

	if finalized == nil {
		return &node.Module{}, node.ModeExec, nil
	}

	out, ok := finalized.(node.Root)
	if !ok {
		return nil, "", fmt.Errorf("%w: transformation returned %s", node.ErrNotCompilable, finalized.Kind())
	}

	return out, mode, nil
}

func (l *Language) parse(ctx context.Context, src []byte) (node.Root, node.Mode, error) {
	switch l.Mode {
	case node.ModeEval:
		expression, err := l.Parser.ParseExpression(ctx, src)

		return expression, node.ModeEval, err
	case node.ModeExec:
		module, err := l.Parser.Parse(ctx, src)

		return module, node.ModeExec, err
	case node.ModeSingle:
		module, err := l.Parser.Parse(ctx, src)
		if err != nil {
			return nil, "", err
		}

		return &node.Interactive{Body: module.Body}, node.ModeSingle, nil
	}

	module, err := l.Parser.Parse(ctx, src)
	if err != nil {
		return nil, "", err
	}

	if len(module.Body) == 1 {
		if stmt, ok := module.Body[0].(*node.ExprStmt); ok {
			return &node.Expression{Body: stmt.Value}, node.ModeEval, nil
		}
	}

	return module, node.ModeExec, nil
}

// Source runs the pipeline and renders the result.
func (l *Language) Source(ctx context.Context, src []byte) (string, error) {
	root, _, err := l.Tree(ctx, src)
	if err != nil {
		return "", err
	}

	_, span := l.Parser.tracerOrDefault().Start(ctx, "pyforge.render")
	defer span.End()

	return node.RenderWith(root, l.Render)
}

// Compile runs the pipeline and produces a code unit.
func (l *Language) Compile(ctx context.Context, src []byte) (*node.CodeUnit, error) {
	root, _, err := l.Tree(ctx, src)
	if err != nil {
		return nil, err
	}

	unit, err := node.Compile(root, l.Filename)
	if err != nil {
		return nil, err
	}

	if l.Render != node.DefaultRenderOptions() {
		if unit.Source, err = node.RenderWith(unit.Root, l.Render); err != nil {
			return nil, err
		}
	}

	return unit, nil
}

// Run compiles src and executes it with in.
func (l *Language) Run(ctx context.Context, src []byte, in *Interpreter) (*RunResult, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: no interpreter configured", ErrInterpreterUnavailable)
	}

	unit, err := l.Compile(ctx, src)
	if err != nil {
		return nil, err
	}

	return in.Run(ctx, unit)
}
