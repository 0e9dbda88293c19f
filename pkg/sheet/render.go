package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Render writes records as sheet export text: fields separated by commas,
// every row terminated by CR LF.
//
// A field is quoted when it contains a comma, a quote, CR or LF, or when it
// has leading or trailing spaces that the reader would otherwise trim.
// Quotes are doubled. A row of one empty field is written as "" so that it
// is not read back as an empty row.
//
// Example:
//
//	sheet.Render([][]string{{"Int", "Array"}, {"1", "1,2"}})
//	// Int,Array\r\n1,"1,2"\r\n
func Render(records [][]string) []byte {
	var buf bytes.Buffer
	// recordsToNode only builds string literals, which renderNode accepts.
	_ = renderNode(recordsToNode(records), &buf)
	return buf.Bytes()
}

// Records returns the table as records, header first. The header is taken
// from the first row; an empty table has no records.
func (t Table) Records() [][]string {
	if len(t) == 0 {
		return nil
	}
	records := make([][]string, 0, len(t)+1)
	records = append(records, t[0].Columns())
	for _, row := range t {
		records = append(records, row.Values())
	}
	return records
}

func recordsToNode(records [][]string) *ast.ArrayDataNode {
	rows := make([]ast.SchemaNode, len(records))
	for i, rec := range records {
		fields := make([]ast.SchemaNode, len(rec))
		for j, f := range rec {
			fields[j] = ast.NewLiteralNode(f, ast.ZeroPosition())
		}
		rows[i] = ast.NewArrayDataNode(fields, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(rows, ast.ZeroPosition())
}

func renderNode(node ast.SchemaNode, buf *bytes.Buffer) error {
	file, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return fmt.Errorf("unsupported node type for rendering: %T", node)
	}

	for i, elem := range file.Elements() {
		rec, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return fmt.Errorf("record %d: unexpected node %T", i, elem)
		}
		if err := renderRecord(rec, buf); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		buf.WriteString("\r\n")
	}
	return nil
}

func renderRecord(rec *ast.ArrayDataNode, buf *bytes.Buffer) error {
	fields := rec.Elements()
	if len(fields) == 1 {
		if lit, ok := fields[0].(*ast.LiteralNode); ok && lit.Value() == "" {
			buf.WriteString(`""`)
			return nil
		}
	}

	for j, f := range fields {
		if j > 0 {
			buf.WriteByte(',')
		}
		lit, ok := f.(*ast.LiteralNode)
		if !ok {
			return fmt.Errorf("field %d: unexpected node %T", j, f)
		}
		s, ok := lit.Value().(string)
		if !ok && lit.Value() != nil {
			s = fmt.Sprintf("%v", lit.Value())
		}
		writeField(buf, s)
	}
	return nil
}

func writeField(buf *bytes.Buffer, value string) {
	if !needsQuoting(value) {
		buf.WriteString(value)
		return
	}
	buf.WriteByte('"')
	buf.WriteString(strings.ReplaceAll(value, `"`, `""`))
	buf.WriteByte('"')
}

func needsQuoting(value string) bool {
	if strings.ContainsAny(value, ",\"\r\n") {
		return true
	}
	return value != strings.TrimSpace(value)
}
