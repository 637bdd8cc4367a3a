package node

import "fmt"

// Mode is the compile mode a code unit targets.
type Mode string

// Compile modes, matching Python's compile() modes.
const (
	ModeExec   Mode = "exec"
	ModeEval   Mode = "eval"
	ModeSingle Mode = "single"
)

// DefaultFilename names code units compiled without a file.
const DefaultFilename = "<pyforge>"

// CodeUnit is an executable artifact handed to the host compiler: the
// finalized root together with its canonical source.
type CodeUnit struct {
	Mode     Mode
	Filename string
	Source   string
	Root     Root
}

// Compile turns a node into a code unit. Modules compile in exec mode,
// Interactive roots in single mode and Expression roots in eval mode. A bare
// expression is wrapped in an Expression and a bare statement in a Module.
// Data nodes, operators, contexts and raw nodes return ErrNotCompilable.
func Compile(n Node, filename string) (*CodeUnit, error) {
	root, mode, err := compileRoot(n)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		filename = DefaultFilename
	}

	finalized, ok := Finalize(root).(Root)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCompilable, n.Kind())
	}

	source, err := Render(finalized)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", filename, err)
	}

	return &CodeUnit{Mode: mode, Filename: filename, Source: source, Root: finalized}, nil
}

func compileRoot(n Node) (Root, Mode, error) {
	if isNilNode(n) {
		return nil, "", fmt.Errorf("%w: nil node", ErrNotCompilable)
	}

	if raw, ok := n.(*RawNode); ok {
		return nil, "", fmt.Errorf("%w: unregistered kind %s", ErrNotCompilable, raw.Tag)
	}

	switch typed := n.(type) {
	case *Module:
		return typed, ModeExec, nil
	case *Interactive:
		return typed, ModeSingle, nil
	case *Expression:
		return typed, ModeEval, nil
	case Expr:
		return &Expression{Body: typed}, ModeEval, nil
	case Stmt:
		return &Module{Body: []Stmt{typed}}, ModeExec, nil
	default:
		return nil, "", fmt.Errorf("%w: %s is a %s node", ErrNotCompilable, n.Kind(), FamilyOf(n))
	}
}
