package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cogentcore.org/core/base/keylist"
	"github.com/shapestone/shape-core/pkg/ast"
)

// Row maps column names to raw cell text, in header order.
// A Row is immutable once built; the zero Row has no columns.
type Row struct {
	cells *keylist.List[string, string]
}

// NewRow pairs columns with values. Values are trimmed; values beyond the
// last column are dropped. It fails with a *CardinalityError when there are
// fewer values than columns and with a *HeaderError on duplicate columns.
func NewRow(columns, values []string) (Row, error) {
	if len(values) < len(columns) {
		return Row{}, &CardinalityError{
			Got:  len(values),
			Want: len(columns),
			Msg:  "row has fewer fields than the header",
		}
	}

	cells := keylist.New[string, string]()
	for j, name := range columns {
		if err := cells.Add(name, strings.TrimSpace(values[j])); err != nil {
			return Row{}, &HeaderError{Column: name, Err: ErrDuplicateColumn}
		}
	}
	return Row{cells: cells}, nil
}

// Get returns the raw text of the named column.
func (r Row) Get(column string) (string, bool) {
	if r.cells == nil {
		return "", false
	}
	return r.cells.AtTry(column)
}

// Len returns the number of columns.
func (r Row) Len() int {
	return r.cells.Len()
}

// Columns returns the column names in header order.
func (r Row) Columns() []string {
	if r.cells == nil {
		return nil
	}
	return append([]string(nil), r.cells.Keys...)
}

// Values returns the cell texts in header order.
func (r Row) Values() []string {
	if r.cells == nil {
		return nil
	}
	return append([]string(nil), r.cells.Values...)
}

// MarshalJSON encodes the row as a JSON object with keys in header order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.cells.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is the ordered sequence of data rows of one sheet.
type Table []Row

// BuildTable turns pre-split records into a Table. records[0] is the header
// and never appears in the result. A header-only or empty input yields an
// empty table.
func BuildTable(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, nil
	}

	header := make([]string, len(records[0]))
	for j, name := range records[0] {
		header[j] = strings.TrimSpace(name)
	}

	table := make(Table, 0, len(records)-1)
	for i, values := range records[1:] {
		row, err := NewRow(header, values)
		if err != nil {
			if ce, ok := err.(*CardinalityError); ok {
				ce.Row = i + 1
			}
			return nil, err
		}
		table = append(table, row)
	}
	return table, nil
}

// nodeToRecords flattens the parser's AST into records.
// The file node holds record nodes, each holding string literals.
func nodeToRecords(node ast.SchemaNode) ([][]string, error) {
	file, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("unexpected file node %T", node)
	}

	records := make([][]string, 0, file.Len())
	for i, elem := range file.Elements() {
		fields, err := recordFields(elem)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, fields)
	}
	return records, nil
}

func recordFields(node ast.SchemaNode) ([]string, error) {
	rec, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("unexpected node %T", node)
	}
	fields := make([]string, 0, rec.Len())
	for _, f := range rec.Elements() {
		lit, ok := f.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("unexpected field node %T", f)
		}
		s, ok := lit.Value().(string)
		if !ok {
			s = fmt.Sprintf("%v", lit.Value())
		}
		fields = append(fields, s)
	}
	return fields, nil
}
