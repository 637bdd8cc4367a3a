package pyast

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// RoundTrip is the outcome of rendering a source file, parsing the result
// and rendering it again.
type RoundTrip struct {
	// First is the canonical rendering of the original source.
	First string
	// Second is the rendering of First after it is parsed again.
	Second string
	// Fixpoint holds when First and Second are the same text.
	Fixpoint bool
	// Structural holds when both parses produce equal trees.
	Structural bool
	// Diff compares First against Second.
	Diff *LineDiff
}

// OK reports whether the source survived the round trip.
func (rt *RoundTrip) OK() bool {
	return rt.Fixpoint && rt.Structural
}

// CheckRoundTrip parses src, renders it canonically with opts, and checks
// that parsing and rendering the canonical text changes neither the text nor
// the tree.
func CheckRoundTrip(ctx context.Context, parser *Parser, src []byte, opts node.RenderOptions) (*RoundTrip, error) {
	original, first, err := parseAndRender(ctx, parser, src, opts)
	if err != nil {
		return nil, fmt.Errorf("original: %w", err)
	}

	reparsed, second, err := parseAndRender(ctx, parser, []byte(first), opts)
	if err != nil {
		return nil, fmt.Errorf("canonical rendering: %w", err)
	}

	return &RoundTrip{
		First:      first,
		Second:     second,
		Fixpoint:   first == second,
		Structural: node.Equal(original, reparsed),
		Diff:       DiffLines(first, second),
	}, nil
}

func parseAndRender(ctx context.Context, parser *Parser, src []byte, opts node.RenderOptions) (node.Node, string, error) {
	module, err := parser.Parse(ctx, src)
	if err != nil {
		return nil, "", err
	}

	finalized := node.FinalizeNode(module)

	rendered, err := node.RenderWith(finalized, opts)
	if err != nil {
		return nil, "", fmt.Errorf("render: %w", err)
	}

	return finalized, rendered, nil
}
