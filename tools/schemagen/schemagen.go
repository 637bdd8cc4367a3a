// Package main generates the raw syntax tree JSON schema from the kind
// registry.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/spec"
)

// Schema represents a JSON Schema.
type Schema struct {
	Schema               string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Type                 any                `json:"type,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Minimum              *int               `json:"minimum,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	AllOf                []*Schema          `json:"allOf,omitempty"`
	AnyOf                []*Schema          `json:"anyOf,omitempty"`
	Definitions          map[string]*Schema `json:"definitions,omitempty"`
}

var outputDir string

func main() {
	flag.StringVar(&outputDir, "o", "pkg/pyast/pkg/spec", "Output directory for the schema")
	flag.Parse()

	if err := writeSchema(generateSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", spec.SchemaFile)
}

func ref(name string) *Schema {
	return &Schema{Ref: "#/definitions/" + name}
}

func minimum(value int) *int {
	return &value
}

func generateSchema() *Schema {
	kinds := make([]string, 0, len(node.Kinds()))
	for _, info := range node.Kinds() {
		kinds = append(kinds, string(info.Kind))
	}

	sort.Strings(kinds)

	nodeSchema := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"_type":      {Type: "string", Enum: kinds},
			"lineno":     {Type: "integer", Minimum: minimum(1)},
			"col_offset": {Type: "integer", Minimum: minimum(0)},
		},
		Required:             []string{"_type"},
		AdditionalProperties: ref("value"),
	}

	valueSchema := &Schema{
		AnyOf: []*Schema{
			{Type: []string{"null", "boolean", "number", "string"}},
			{Type: "array", Items: ref("value")},
			ref("node"),
		},
	}

	return &Schema{
		Schema: "http://json-schema.org/draft-07/schema#",
		Title:  "Python raw syntax tree",
		Description: "Raw JSON interchange form of a Python syntax tree: " +
			"objects tagged with _type, lists and scalar literals.",
		AllOf:       []*Schema{ref("node")},
		Definitions: map[string]*Schema{"node": nodeSchema, "value": valueSchema},
	}
}

func writeSchema(schema *Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	path := filepath.Join(outputDir, spec.SchemaFile)

	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec,mnd // generated source file
}
