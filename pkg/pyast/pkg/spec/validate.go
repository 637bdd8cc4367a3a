package spec

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// ErrInvalidRawTree is node.ErrInvalidRawTree, so callers can test either.
var ErrInvalidRawTree = node.ErrInvalidRawTree

const complianceMax = 100

// Violation is one schema failure.
type Violation struct {
	// Field is the dotted path inside the document, "(root)" for the top.
	Field       string
	Type        string
	Description string
	// Actual is the offending scalar value, if any.
	Actual string
}

// Report is the outcome of validating one document.
type Report struct {
	Nodes      int
	Violations []Violation
}

// Valid reports whether the document passed.
func (r *Report) Valid() bool { return len(r.Violations) == 0 }

// Compliance is the share of nodes without violations, in percent.
func (r *Report) Compliance() int {
	if r.Nodes == 0 {
		return 0
	}

	if r.Valid() {
		return complianceMax
	}

	compliance := (r.Nodes - len(r.Violations)) * complianceMax / r.Nodes

	return max(0, min(compliance, complianceMax))
}

// Err returns nil for a valid report, otherwise ErrInvalidRawTree naming
// the first violation.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}

	first := r.Violations[0]

	return fmt.Errorf("%w: %s: %s (%d violations)", ErrInvalidRawTree, first.Field, first.Description, len(r.Violations))
}

// Hints returns deduplicated, sorted advice for the violations.
func (r *Report) Hints() []string {
	seen := make(map[string]bool)

	for _, violation := range r.Violations {
		if hint := hintFor(violation); hint != "" {
			seen[hint] = true
		}
	}

	hints := make([]string, 0, len(seen))
	for hint := range seen {
		hints = append(hints, hint)
	}

	sort.Strings(hints)

	return hints
}

func hintFor(violation Violation) string {
	switch {
	case violation.Type == "enum" && strings.HasSuffix(violation.Field, "_type"):
		return "Use node kinds listed by `pyforge kinds`"
	case violation.Type == "required":
		return `Every object in the tree needs a "_type" tag`
	case strings.HasSuffix(violation.Field, "lineno") || strings.HasSuffix(violation.Field, "col_offset"):
		return "Positions are integers: lineno counts from 1, col_offset from 0"
	case violation.Type == "number_any_of":
		return "Field values must be nodes, lists or scalar literals"
	default:
		return ""
	}
}

// Validator checks documents against a compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the schema at path, or the embedded schema when
// path is empty.
func NewValidator(path string) (*Validator, error) {
	var (
		content []byte
		err     error
	)

	if path == "" {
		content, err = RawTreeSchemaFS.ReadFile(SchemaFile)
	} else {
		content, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate decodes one JSON document and validates it. Malformed JSON is
// reported as ErrInvalidRawTree.
func (v *Validator) Validate(reader io.Reader) (*Report, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var doc any

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRawTree, err)
	}

	return v.ValidateValue(doc)
}

// ValidateValue validates an already decoded document.
func (v *Validator) ValidateValue(doc any) (*Report, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	report := &Report{Nodes: countNodes(doc)}

	for _, resultErr := range result.Errors() {
		report.Violations = append(report.Violations, Violation{
			Field:       resultErr.Field(),
			Type:        resultErr.Type(),
			Description: resultErr.Description(),
			Actual:      actualValue(doc, resultErr.Field()),
		})
	}

	return report, nil
}

// Validate checks a document against the embedded schema.
func Validate(reader io.Reader) (*Report, error) {
	validator, err := NewValidator("")
	if err != nil {
		return nil, err
	}

	return validator.Validate(reader)
}

func countNodes(data any) int {
	count := 0

	switch typed := data.(type) {
	case map[string]any:
		if _, tagged := typed["_type"]; tagged {
			count++
		}

		for _, value := range typed {
			count += countNodes(value)
		}
	case []any:
		for _, item := range typed {
			count += countNodes(item)
		}
	}

	return count
}

// actualValue follows a dotted field path such as "body.0._type".
func actualValue(data any, fieldPath string) string {
	current := data

	for _, part := range strings.Split(fieldPath, ".") {
		switch typed := current.(type) {
		case map[string]any:
			value, found := typed[part]
			if !found {
				return ""
			}

			current = value
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(typed) {
				return ""
			}

			current = typed[idx]
		default:
			return ""
		}
	}

	switch typed := current.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}
