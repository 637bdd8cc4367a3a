// Package main generates the operator sugar methods of node.Ex from the
// operator catalog.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"text/template"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

type method struct {
	Name    string
	Builder string
	Op      string
	Symbol  string
	Unary   bool
}

var builders = map[node.OperatorFamily]string{
	node.FamilyBoolOp:  "boolean",
	node.FamilyBinOp:   "binary",
	node.FamilyCmpOp:   "compare",
	node.FamilyUnaryOp: "unary",
}

var fileTemplate = template.Must(template.New("ops").Parse(`// Code generated by opgen. DO NOT EDIT.

package node
{{range .}}
{{if .Unary}}// {{.Name}} builds ` + "`{{.Symbol}} x`" + `.
func (x Ex) {{.Name}}() Ex { return x.unary({{.Op}}) }
{{else}}// {{.Name}} builds ` + "`x {{.Symbol}} other`" + `.
func (x Ex) {{.Name}}(other any) Ex { return x.{{.Builder}}({{.Op}}, other) }
{{end}}{{end}}`))

var output string

func main() {
	flag.StringVar(&output, "o", "operators_gen.go", "Output file")
	flag.Parse()

	methods := make([]method, 0, len(node.Operators()))

	for _, info := range node.Operators() {
		if info.Method == "" {
			continue
		}

		methods = append(methods, method{
			Name:    info.Method,
			Builder: builders[info.Family],
			Op:      string(info.Name),
			Symbol:  info.Symbol,
			Unary:   info.Family == node.FamilyUnaryOp,
		})
	}

	var buf bytes.Buffer

	if err := fileTemplate.Execute(&buf, methods); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering template: %v\n", err)
		os.Exit(1)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, src, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d operator methods\n", len(methods))
}
