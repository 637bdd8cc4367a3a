// Package spec provides the embedded raw syntax tree schema and validates
// raw JSON trees against it.
package spec

import "embed"

// SchemaFile is the name of the embedded raw tree schema.
const SchemaFile = "rawtree-schema.json"

// RawTreeSchemaFS contains the embedded raw tree JSON schema.
//
//go:generate go run ../../../../tools/schemagen -o .
//go:embed rawtree-schema.json
var RawTreeSchemaFS embed.FS
