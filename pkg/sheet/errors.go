package sheet

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-sheet/internal/parser"
)

// Sentinel errors. Every fatal error returned by this package matches one
// of them with errors.Is.
var (
	// ErrCardinality indicates the wrong number of values: a short data row,
	// an odd alternating map or a pair that is not exactly 2 tokens.
	ErrCardinality = errors.New("cardinality mismatch")

	// ErrFormat indicates a token that cannot be coerced to its target type.
	ErrFormat = errors.New("invalid format")

	// ErrUnclosedQuote indicates input that ends inside a quoted field.
	ErrUnclosedQuote = parser.ErrUnclosedQuote

	// ErrDuplicateColumn indicates a header naming the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrDuplicateField indicates a schema declaring the same field twice.
	ErrDuplicateField = errors.New("duplicate field")
)

// CardinalityError reports a value count that does not match what the
// grammar requires.
type CardinalityError struct {
	// Row is the 1-based data row index for short rows, 0 for cell errors.
	Row int
	// Text is the offending cell text (empty for row errors).
	Text string
	// Got is the number of values found.
	Got int
	// Want is the number of values required. For maps it is 0, meaning
	// "an even number".
	Want int
	// Msg describes the rule that was violated.
	Msg string
}

func (e *CardinalityError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s (got %d, want %d)", e.Row, e.Msg, e.Got, e.Want)
	}
	return fmt.Sprintf("%s (got %d values in %q)", e.Msg, e.Got, e.Text)
}

// Is makes errors.Is(err, ErrCardinality) match.
func (e *CardinalityError) Is(target error) bool {
	return target == ErrCardinality
}

// FormatError reports a token that is not valid for its target type.
type FormatError struct {
	// Token is the raw text that failed to coerce.
	Token string
	// Type names the target type.
	Type string
	// Err is the underlying conversion error, if any.
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Token, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to %s", e.Token, e.Type)
}

// Is makes errors.Is(err, ErrFormat) match.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ParseError represents a tokenization failure with position information.
type ParseError struct {
	// Line is the line where the failing field started (1-indexed).
	Line int
	// Column is the column where the failing field started (1-indexed).
	Column int
	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HeaderError reports an invalid header row.
type HeaderError struct {
	Column string
	Err    error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("header column %q: %v", e.Column, e.Err)
}

func (e *HeaderError) Unwrap() error {
	return e.Err
}

// FieldError attaches the schema field and its cell text to a fatal
// deserialization error.
type FieldError struct {
	Field string
	Text  string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q (%q): %v", e.Field, e.Text, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RowError attaches the 1-based data row index to a deserialization error.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// MissingFieldWarning is the non-fatal diagnostic emitted when a row has no
// column for a schema field. The field keeps its zero value.
type MissingFieldWarning struct {
	// Field is the schema field name.
	Field string
	// Record names the record type being deserialized.
	Record string
}

func (w MissingFieldWarning) String() string {
	return fmt.Sprintf("the data does not contain the field %s for the record of %s type", w.Field, w.Record)
}

// WarningHandler receives missing-field diagnostics.
type WarningHandler func(w MissingFieldWarning)
