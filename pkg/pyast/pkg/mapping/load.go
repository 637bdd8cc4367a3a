package mapping

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/match"
)

// Format is a rule file encoding.
type Format string

// Supported rule file formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Decode reads a rule file document without compiling it.
func Decode(reader io.Reader, format Format) (*File, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	var file File

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)

		if err := decoder.Decode(&file); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: yaml: %w", ErrInvalidRule, err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(content), &file)
		if err != nil {
			return nil, fmt.Errorf("%w: toml: %w", ErrInvalidRule, err)
		}

		for _, key := range meta.Undecoded() {
			if !freeFormKey(key) {
				return nil, fmt.Errorf("%w: toml: unknown key %s", ErrInvalidRule, key)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return &file, nil
}

// freeFormKey reports whether key lies inside a match "fields" table or a
// rewrite "set" table. Those decode into plain maps, and toml still lists
// their nested keys as undecoded.
func freeFormKey(key toml.Key) bool {
	for idx := 1; idx+1 < len(key); idx++ {
		switch key[idx] {
		case "fields":
			if key[idx-1] == "match" || key[idx-1] == "when" {
				return true
			}
		case "set":
			if key[idx-1] == "rewrite" {
				return true
			}
		}
	}

	return false
}

// Parse decodes and compiles a rule file.
func Parse(reader io.Reader, format Format) ([]*match.Rule, error) {
	file, err := Decode(reader, format)
	if err != nil {
		return nil, err
	}

	return file.Compile()
}

// LoadFile reads and compiles the rule file at path.
func LoadFile(path string) ([]*match.Rule, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	handle, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer handle.Close()

	rules, err := Parse(handle, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

// LoadRuleset reads the rule file at path into a ruleset.
func LoadRuleset(path string) (*match.Ruleset, error) {
	rules, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	return match.NewRuleset(rules...), nil
}
