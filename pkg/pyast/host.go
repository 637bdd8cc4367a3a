package pyast

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Host compiler errors.
var (
	ErrSourceTooLarge = errors.New("source exceeds the size limit")
	ErrCompileDrift   = errors.New("compiled source does not parse back to its tree")
)

// HostCompiler accepts code units the way Python's compile() would: the
// unit source must parse under its mode and give back the unit tree.
type HostCompiler struct {
	Parser *Parser

	// MaxSourceSize rejects larger sources. Zero means no limit.
	MaxSourceSize uint64
}

// NewHostCompiler creates a host compiler backed by parser.
func NewHostCompiler(parser *Parser, maxSourceSize uint64) *HostCompiler {
	return &HostCompiler{Parser: parser, MaxSourceSize: maxSourceSize}
}

// Check validates unit.
func (hc *HostCompiler) Check(ctx context.Context, unit *node.CodeUnit) error {
	ctx, span := hc.Parser.tracerOrDefault().Start(ctx, "pyforge.compile",
		trace.WithAttributes(
			attribute.String("pyforge.mode", string(unit.Mode)),
			attribute.String("pyforge.filename", unit.Filename),
		))
	defer span.End()

	if err := hc.check(ctx, unit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("%s: %w", unit.Filename, err)
	}

	return nil
}

func (hc *HostCompiler) check(ctx context.Context, unit *node.CodeUnit) error {
	size := uint64(len(unit.Source))
	if hc.MaxSourceSize > 0 && size > hc.MaxSourceSize {
		return fmt.Errorf("%w: %s over %s", ErrSourceTooLarge,
			humanize.IBytes(size), humanize.IBytes(hc.MaxSourceSize))
	}

	reparsed, err := hc.reparse(ctx, unit)
	if err != nil {
		return err
	}

	if !node.Equal(node.FinalizeNode(reparsed), unit.Root) {
		return ErrCompileDrift
	}

	return nil
}

func (hc *HostCompiler) reparse(ctx context.Context, unit *node.CodeUnit) (node.Node, error) {
	src := []byte(unit.Source)

	switch unit.Mode {
	case node.ModeEval:
		return hc.Parser.ParseExpression(ctx, src)
	case node.ModeSingle:
		module, err := hc.Parser.Parse(ctx, src)
		if err != nil {
			return nil, err
		}

		return &node.Interactive{Body: module.Body}, nil
	default:
		return hc.Parser.Parse(ctx, src)
	}
}
