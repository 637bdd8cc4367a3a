// Package pyast parses Python source into pyforge node trees through the
// tree-sitter Python grammar, and hands compiled code units to the host
// Python toolchain.
package pyast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
	"github.com/Sumatoshi-tech/pyforge/pkg/safeconv"
)

const tracerName = "pyforge/pyast"

// Sentinel errors for parsing.
var (
	ErrSyntax            = errors.New("syntax error")
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
	ErrNotExpression     = errors.New("source is not a single expression")
	errPoolType          = errors.New("parser pool returned unexpected type")
	errNoRootNode        = errors.New("parser produced no root node")
)

// SyntaxError locates a parse failure. Line and Column are 1-based.
type SyntaxError struct {
	Line   int
	Column int
	Near   string
	Err    error
}

// Error implements error.
func (se *SyntaxError) Error() string {
	if se.Near == "" {
		return fmt.Sprintf("line %d, column %d: %v", se.Line, se.Column, se.Err)
	}

	return fmt.Sprintf("line %d, column %d near %q: %v", se.Line, se.Column, se.Near, se.Err)
}

// Unwrap returns ErrSyntax or ErrUnsupportedSyntax.
func (se *SyntaxError) Unwrap() error {
	return se.Err
}

var (
	languageOnce sync.Once
	language     *sitter.Language
)

func pythonLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(python.GetLanguage())
	})

	return language
}

// Parser turns Python source into node trees. It is safe for concurrent use.
type Parser struct {
	pool   sync.Pool
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the parser logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithTracer sets the tracer used for parse spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Parser) { p.tracer = tracer }
}

// NewParser creates a parser for the Python grammar.
func NewParser(opts ...Option) *Parser {
	parser := &Parser{}

	for _, opt := range opts {
		opt(parser)
	}

	lang := pythonLanguage()
	parser.pool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	return parser
}

func (p *Parser) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return p.logger
}

func (p *Parser) tracerOrDefault() trace.Tracer {
	if p.tracer == nil {
		return otel.Tracer(tracerName)
	}

	return p.tracer
}

// ParseRaw parses source into a raw tree rooted at a Module raw node.
func (p *Parser) ParseRaw(ctx context.Context, src []byte) (*node.RawNode, error) {
	ctx, span := p.tracerOrDefault().Start(ctx, "pyforge.parse",
		trace.WithAttributes(attribute.Int("pyforge.source.bytes", len(src))))
	defer span.End()

	start := time.Now()

	raw, err := p.parseRaw(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.log().DebugContext(ctx, "parse failed", "error", err)

		return nil, err
	}

	p.log().DebugContext(ctx, "parsed", "bytes", len(src), "statements", len(rawList(raw.Fields["body"])),
		"duration", time.Since(start))

	return raw, nil
}

func (p *Parser) parseRaw(ctx context.Context, src []byte) (*node.RawNode, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	if root.HasError() {
		return nil, syntaxErrorAt(root, src)
	}

	return newBuilder(src).module(root)
}

// Parse parses source into a Module.
func (p *Parser) Parse(ctx context.Context, src []byte) (*node.Module, error) {
	raw, err := p.ParseRaw(ctx, src)
	if err != nil {
		return nil, err
	}

	wrapped, err := node.WrapNode(raw)
	if err != nil {
		return nil, fmt.Errorf("wrap: %w", err)
	}

	module, ok := wrapped.(*node.Module)
	if !ok {
		return nil, fmt.Errorf("%w: root is %s", ErrUnsupportedSyntax, wrapped.Kind())
	}

	return module, nil
}

// ParseExpression parses source holding exactly one expression into an
// Expression root, the eval-mode counterpart of Parse.
func (p *Parser) ParseExpression(ctx context.Context, src []byte) (*node.Expression, error) {
	module, err := p.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	if len(module.Body) != 1 {
		return nil, fmt.Errorf("%w: %d statements", ErrNotExpression, len(module.Body))
	}

	stmt, ok := module.Body[0].(*node.ExprStmt)
	if !ok {
		return nil, fmt.Errorf("%w: found %s", ErrNotExpression, module.Body[0].Kind())
	}

	return &node.Expression{Body: stmt.Value}, nil
}

// syntaxErrorAt reports the first ERROR or MISSING node under root.
func syntaxErrorAt(root sitter.Node, src []byte) error {
	bad := firstError(root)
	if bad.IsNull() {
		bad = root
	}

	point := bad.StartPoint()
	near := string(src[bad.StartByte():bad.EndByte()])

	const maxNear = 20
	if len(near) > maxNear {
		near = near[:maxNear]
	}

	reason := ErrSyntax
	if bad.IsMissing() {
		reason = fmt.Errorf("%w: missing %s", ErrSyntax, bad.Type())
		near = ""
	}

	return &SyntaxError{Line: safeconv.OneBased(point.Row), Column: safeconv.OneBased(point.Column), Near: near, Err: reason}
}

func firstError(n sitter.Node) sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}

	for idx := range n.ChildCount() {
		child := n.Child(idx)
		if !child.HasError() && !child.IsMissing() {
			continue
		}

		if found := firstError(child); !found.IsNull() {
			return found
		}
	}

	return sitter.Node{}
}
