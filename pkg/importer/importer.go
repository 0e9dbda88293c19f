// Package importer runs sheet imports: each registered importer names a
// source, receives the converted row table and stores it somewhere.
//
// Importers are registered explicitly with an order. A run imports them in
// ascending order; importers registered with Unordered run last, in
// registration order.
//
//	reg := importer.NewRegistry(&source.Fetcher{})
//	reg.Register(importer.NewRecords("items", spec, itemSchema, saveItems), 1)
//	report, err := reg.Run(ctx)
package importer

import (
	"context"
	"fmt"

	"github.com/shapestone/shape-sheet/internal/logging"
	"github.com/shapestone/shape-sheet/pkg/sheet"
	"github.com/shapestone/shape-sheet/pkg/source"
)

// Importer receives the row table of one sheet.
type Importer interface {
	// Name identifies the importer in a registry.
	Name() string
	// Source locates the sheet to import.
	Source() source.Spec
	// Import stores the rows of a non-empty table.
	Import(ctx context.Context, table sheet.Table) error
}

// Records is an Importer that deserializes every row with a schema and
// hands the records to a sink function.
type Records[R any] struct {
	name   string
	spec   source.Spec
	schema *sheet.Schema[R]
	sink   func(ctx context.Context, records []R) error

	// Options configures deserialization. When Options.Logger is nil, the
	// run logger of the import context is used.
	Options sheet.DecodeOptions
}

// NewRecords returns a Records importer.
func NewRecords[R any](name string, spec source.Spec, schema *sheet.Schema[R], sink func(context.Context, []R) error) *Records[R] {
	return &Records[R]{
		name:   name,
		spec:   spec,
		schema: schema,
		sink:   sink,
	}
}

func (r *Records[R]) Name() string        { return r.name }
func (r *Records[R]) Source() source.Spec { return r.spec }

// Import deserializes the table and calls the sink once with all records.
// The context is checked between rows.
func (r *Records[R]) Import(ctx context.Context, table sheet.Table) error {
	opts := r.Options
	if opts.Logger == nil && opts.WarningCallback == nil {
		opts.Logger = logging.WithFields(ctx, "importer", r.name)
	}

	records := make([]R, 0, len(table))
	for i, row := range table {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.schema.DeserializeWithOptions(row, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", r.name, &sheet.RowError{Row: i + 1, Err: err})
		}
		records = append(records, rec)
	}
	return r.sink(ctx, records)
}

// Table is an Importer that hands the raw row table to a sink function.
type Table struct {
	name string
	spec source.Spec
	sink func(ctx context.Context, table sheet.Table) error
}

// NewTable returns a Table importer.
func NewTable(name string, spec source.Spec, sink func(context.Context, sheet.Table) error) *Table {
	return &Table{name: name, spec: spec, sink: sink}
}

func (t *Table) Name() string        { return t.name }
func (t *Table) Source() source.Spec { return t.spec }

func (t *Table) Import(ctx context.Context, table sheet.Table) error {
	return t.sink(ctx, table)
}
