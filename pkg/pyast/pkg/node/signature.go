package node

import (
	"fmt"
	"reflect"
	"strings"
)

// Param describes one parameter of a Signature.
type Param struct {
	Name string
	// Annotation is a type expression in source form, empty for none.
	Annotation string
	// Default is boxed like any literal when HasDefault is set.
	Default    any
	HasDefault bool
}

// Signature is an explicit function signature descriptor.
type Signature struct {
	PosOnly []Param
	Params  []Param
	Vararg  *Param
	KwOnly  []Param
	Kwarg   *Param
	// Returns is the return annotation in source form, empty for none.
	Returns string
}

// Arguments converts the descriptor into an arguments node.
func (sig Signature) Arguments() *Arguments {
	args := &Arguments{
		PosOnlyArgs: make([]*Arg, 0, len(sig.PosOnly)),
		Args:        make([]*Arg, 0, len(sig.Params)),
		KwOnlyArgs:  make([]*Arg, 0, len(sig.KwOnly)),
		KwDefaults:  make([]Expr, 0, len(sig.KwOnly)),
		Defaults:    []Expr{},
	}

	for _, param := range sig.PosOnly {
		args.PosOnlyArgs = append(args.PosOnlyArgs, param.arg())
		if param.HasDefault {
			args.Defaults = append(args.Defaults, toExpr(param.Default))
		}
	}

	for _, param := range sig.Params {
		args.Args = append(args.Args, param.arg())
		if param.HasDefault {
			args.Defaults = append(args.Defaults, toExpr(param.Default))
		}
	}

	if sig.Vararg != nil {
		args.Vararg = sig.Vararg.arg()
	}

	for _, param := range sig.KwOnly {
		args.KwOnlyArgs = append(args.KwOnlyArgs, param.arg())

		var def Expr
		if param.HasDefault {
			def = toExpr(param.Default)
		}

		args.KwDefaults = append(args.KwDefaults, def)
	}

	if sig.Kwarg != nil {
		args.Kwarg = sig.Kwarg.arg()
	}

	return args
}

// Validate checks that positional defaults only appear on a trailing run.
func (sig Signature) Validate() error {
	seenDefault := false

	for _, param := range append(append([]Param{}, sig.PosOnly...), sig.Params...) {
		switch {
		case param.HasDefault:
			seenDefault = true
		case seenDefault:
			return fmt.Errorf("%w: parameter %q without default follows a default", ErrBadSignature, param.Name)
		}

		if param.Name == "" {
			return fmt.Errorf("%w: unnamed parameter", ErrBadSignature)
		}
	}

	return nil
}

func (param Param) arg() *Arg {
	arg := &Arg{Arg: param.Name}
	if param.Annotation != "" {
		arg.Annotation = NewName(param.Annotation)
	}

	return arg
}

// SignatureOf extracts a signature from a Go function value. Go keeps no
// parameter names at run time, so names supplies one per parameter. A
// variadic last parameter becomes *args; a name written as "**name" on a
// trailing map parameter becomes **kwargs. Annotations and the return
// annotation map Go types onto Python builtin type names.
func SignatureOf(fn any, names ...string) (Signature, error) {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: %T", ErrNotFunction, fn)
	}

	if len(names) != fnType.NumIn() {
		return Signature{}, fmt.Errorf("%w: %d names for %d parameters", ErrBadSignature, len(names), fnType.NumIn())
	}

	var sig Signature

	for idx := range fnType.NumIn() {
		paramType := fnType.In(idx)
		last := idx == fnType.NumIn()-1

		switch {
		case last && fnType.IsVariadic():
			sig.Vararg = &Param{Name: names[idx], Annotation: pythonType(paramType.Elem())}
		case last && strings.HasPrefix(names[idx], "**") && paramType.Kind() == reflect.Map:
			sig.Kwarg = &Param{Name: strings.TrimPrefix(names[idx], "**"), Annotation: pythonType(paramType.Elem())}
		default:
			sig.Params = append(sig.Params, Param{Name: names[idx], Annotation: pythonType(paramType)})
		}
	}

	switch fnType.NumOut() {
	case 0:
		sig.Returns = "None"
	case 1:
		sig.Returns = pythonType(fnType.Out(0))
	default:
		sig.Returns = "tuple"
	}

	return sig, nil
}

// pythonType names the Python builtin closest to a Go type, empty when none fits.
func pythonType(typ reflect.Type) string {
	switch typ.Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Complex64, reflect.Complex128:
		return "complex"
	case reflect.String:
		return "str"
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			return "bytes"
		}

		return "list"
	case reflect.Map:
		return "dict"
	case reflect.Func:
		return "callable"
	default:
		return ""
	}
}

// DefFrom builds a function definition from a signature and a body. An empty
// body renders as `pass`.
func DefFrom(name string, sig Signature, body ...Stmt) (*FunctionDef, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	def := &FunctionDef{
		Name:          name,
		Args:          sig.Arguments(),
		Body:          append([]Stmt{}, body...),
		DecoratorList: []Expr{},
	}

	if sig.Returns != "" {
		def.Returns = returnAnnotation(sig.Returns)
	}

	return def, nil
}

func returnAnnotation(name string) Expr {
	if name == "None" {
		return NewConstant(None)
	}

	return NewName(name)
}
