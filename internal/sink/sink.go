// Package sink writes imported rows and records to JSON, YAML or TOML files.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-sheet/pkg/sheet"
)

// Format is an output encoding.
type Format int

const (
	JSON Format = iota
	YAML
	TOML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return 0, fmt.Errorf("unknown output format %q", s)
	}
}

// FormatFor returns the format selected by the extension of path.
func FormatFor(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes v to w. A sheet.Table keeps its column order in JSON and
// YAML. TOML has no top-level arrays, so tables are written under "rows" and
// other slices under "records".
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if t, ok := v.(sheet.Table); ok {
			if err := enc.Encode(tableNode(t)); err != nil {
				return err
			}
		} else if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(tomlDocument(v))
	default:
		return fmt.Errorf("encode: unknown format %v", f)
	}
}

// WriteFile encodes v into path, creating parent directories. The format is
// chosen from the extension of path. The file is replaced only after the
// whole document has been written.
func WriteFile(path string, v any) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, f, v); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// tableNode builds a YAML sequence of mappings in header order.
func tableNode(t sheet.Table) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range t {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		values := row.Values()
		for i, col := range row.Columns() {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: values[i]},
			)
		}
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func tomlDocument(v any) any {
	if t, ok := v.(sheet.Table); ok {
		rows := make([]map[string]string, len(t))
		for i, row := range t {
			m := make(map[string]string, row.Len())
			values := row.Values()
			for j, col := range row.Columns() {
				m[col] = values[j]
			}
			rows[i] = m
		}
		return map[string]any{"rows": rows}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return map[string]any{"records": v}
	}
	return v
}
