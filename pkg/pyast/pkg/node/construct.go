package node

import "fmt"

// KeywordArg is a named field value passed to New.
type KeywordArg struct {
	Name  string
	Value any
}

// KW names a field value for New.
func KW(name string, value any) KeywordArg {
	return KeywordArg{Name: name, Value: value}
}

// New builds a node of the registered kind. Positional arguments bind in
// declared field order; KW arguments override or extend them. Raw literals are
// boxed into Constant where the field holds a node. Unsupplied fields stay
// unset and resolve through the default table when read.
func New(kind Kind, args ...any) (Node, error) {
	info, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	created := info.New()
	if info.Family == FamilyOperator || info.Family == FamilyContext {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %s takes no fields", ErrTooManyArgs, kind)
		}

		return created, nil
	}

	position := 0

	for _, arg := range args {
		if keyword, isKeyword := arg.(KeywordArg); isKeyword {
			if err := SetField(created, keyword.Name, keyword.Value); err != nil {
				return nil, err
			}

			continue
		}

		if position >= len(info.Fields) {
			return nil, fmt.Errorf("%w: %s takes %d", ErrTooManyArgs, kind, len(info.Fields))
		}

		if err := SetField(created, info.Fields[position].Name, arg); err != nil {
			return nil, err
		}

		position++
	}

	return created, nil
}

// MustNew is New for statically known arguments; it panics on error.
func MustNew(kind Kind, args ...any) Node {
	created, err := New(kind, args...)
	if err != nil {
		panic(err)
	}

	return created
}
