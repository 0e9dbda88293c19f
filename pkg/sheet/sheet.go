// Package sheet turns exported spreadsheet text into typed Go records.
//
// The input is the CSV text a spreadsheet export produces: rows terminated by
// CR LF, fields separated by commas, optionally quoted with double quotes.
// The first row is the header. Each data row becomes a [Row] mapping column
// names to raw cell text.
//
// A cell may encode more than a scalar. The cell grammar splits a cell on the
// array delimiters , ( ) [ ] { } so that one cell can hold a list, a map or a
// pair:
//
//	"1,[2],{3,4},(5),6"  list   -> 1 2 3 4 5 6
//	"1,2,3,4"            map    -> 1:2 3:4
//	"a=1,b:2"            map    -> a:1 b:2   (self-delimited pairs)
//	"1,2"                pair   -> (1, 2)
//
// Brackets are visual grouping only and carry no nesting.
//
// # Schemas
//
// Records are bound through an explicit [Schema], declared once per record
// type with statically typed accessors:
//
//	type Item struct {
//	    Name  string
//	    Tags  []string
//	    Stats map[string]int
//	}
//
//	var itemSchema = sheet.MustSchema(
//	    sheet.Scalar("Name", func(i *Item) *string { return &i.Name }),
//	    sheet.List("Tags", func(i *Item) *[]string { return &i.Tags }),
//	    sheet.Map("Stats", func(i *Item) *map[string]int { return &i.Stats }),
//	)
//
//	items, err := sheet.Unmarshal(itemSchema, text)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. A Schema is
// immutable after construction and may be shared between goroutines.
package sheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/shapestone/shape-sheet/internal/parser"
)

// Records splits text into rows of raw field strings.
//
// Rows are separated by CR LF only; a lone LF is field content. Quoted
// fields may contain commas and line breaks, and "" unescapes to ". Unquoted
// fields are trimmed. Empty rows are skipped.
func Records(text string) ([][]string, error) {
	node, err := parser.NewParser(text).Parse()
	if err != nil {
		return nil, wrapParseError(err)
	}
	return nodeToRecords(node)
}

// ConvertToTable parses a whole sheet export into data rows. The first row
// is consumed as the header and never appears in the result.
//
// Example:
//
//	table, err := sheet.ConvertToTable("Int,Float\r\n1,1.1")
//	v, _ := table[0].Get("Float") // "1.1"
func ConvertToTable(text string) (Table, error) {
	records, err := Records(text)
	if err != nil {
		return nil, err
	}
	return BuildTable(records)
}

// ConvertToTableReader reads all of r and converts it like ConvertToTable.
func ConvertToTableReader(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return ConvertToTable(string(data))
}

func wrapParseError(err error) error {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return &ParseError{Line: perr.Line, Column: perr.Column, Err: perr.Err}
	}
	return err
}
