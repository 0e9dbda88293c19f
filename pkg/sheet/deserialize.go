package sheet

import (
	"log/slog"
)

// DecodeOptions configures deserialization.
type DecodeOptions struct {
	// WarningCallback receives missing-field warnings. When nil, warnings
	// are logged at warn level on Logger.
	WarningCallback WarningHandler

	// Logger receives warnings when WarningCallback is nil. When nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

// DefaultDecodeOptions returns the options used by Deserialize.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{}
}

func (o DecodeOptions) warn(w MissingFieldWarning) {
	if o.WarningCallback != nil {
		o.WarningCallback(w)
		return
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(w.String(), "field", w.Field, "record", w.Record)
}

// Deserialize builds a record from row.
//
// Fields are processed in schema order. Ignored fields keep their zero
// value. A field whose column is absent keeps its zero value and produces a
// missing-field warning. Columns with no matching field are ignored. The
// first grammar or conversion failure aborts and is returned as a
// *FieldError; no partial record is returned.
func (s *Schema[R]) Deserialize(row Row) (R, error) {
	return s.DeserializeWithOptions(row, DefaultDecodeOptions())
}

// DeserializeWithOptions is Deserialize with explicit options.
func (s *Schema[R]) DeserializeWithOptions(row Row, opts DecodeOptions) (R, error) {
	var rec R
	for _, f := range s.fields {
		if f.Ignore {
			continue
		}

		text, ok := row.Get(f.Name)
		if !ok {
			opts.warn(MissingFieldWarning{Field: f.Name, Record: s.record})
			continue
		}

		if err := f.bind(&rec, text); err != nil {
			var zero R
			return zero, &FieldError{Field: f.Name, Text: text, Err: err}
		}
	}
	return rec, nil
}

// DeserializeTable deserializes every row of table in order. A failure is
// returned as a *RowError carrying the 1-based data row index.
func DeserializeTable[R any](s *Schema[R], table Table, opts DecodeOptions) ([]R, error) {
	out := make([]R, 0, len(table))
	for i, row := range table {
		rec, err := s.DeserializeWithOptions(row, opts)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Unmarshal converts a sheet export and deserializes every data row.
//
// Example:
//
//	type Point struct{ X, Y int }
//
//	var points = sheet.MustSchema(
//	    sheet.Scalar("X", func(p *Point) *int { return &p.X }),
//	    sheet.Scalar("Y", func(p *Point) *int { return &p.Y }),
//	)
//
//	ps, err := sheet.Unmarshal(points, "X,Y\r\n1,2\r\n3,4")
func Unmarshal[R any](s *Schema[R], text string) ([]R, error) {
	table, err := ConvertToTable(text)
	if err != nil {
		return nil, err
	}
	return DeserializeTable(s, table, DefaultDecodeOptions())
}
