package importer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shapestone/shape-sheet/internal/logging"
	"github.com/shapestone/shape-sheet/pkg/sheet"
	"github.com/shapestone/shape-sheet/pkg/source"
)

// Unordered registers an importer to run after every ordered one.
const Unordered = math.MaxInt

var (
	// ErrDuplicateImporter indicates a second importer with the same name.
	ErrDuplicateImporter = errors.New("duplicate importer")

	// ErrUnknownImporter indicates a run naming an unregistered importer.
	ErrUnknownImporter = errors.New("unknown importer")
)

// TableSource fetches the row table of a sheet. *source.Fetcher implements it.
type TableSource interface {
	Table(ctx context.Context, spec source.Spec) (sheet.Table, error)
}

// Registry holds importers and runs them in order. It is safe for
// concurrent use; runs do not block registration.
type Registry struct {
	src TableSource

	mu      sync.Mutex
	entries []entry
}

type entry struct {
	imp   Importer
	order int
}

// NewRegistry returns an empty registry reading sheets from src.
func NewRegistry(src TableSource) *Registry {
	return &Registry{src: src}
}

// Register adds imp with the given order. Lower orders run first.
func (r *Registry) Register(imp Importer, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.imp.Name() == imp.Name() {
			return fmt.Errorf("register %q: %w", imp.Name(), ErrDuplicateImporter)
		}
	}
	r.entries = append(r.entries, entry{imp: imp, order: order})
	return nil
}

// Importers returns the registered importers in run order.
func (r *Registry) Importers() []Importer {
	entries := r.sorted()
	out := make([]Importer, len(entries))
	for i, e := range entries {
		out[i] = e.imp
	}
	return out
}

func (r *Registry) sorted() []entry {
	r.mu.Lock()
	entries := append([]entry(nil), r.entries...)
	r.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].order < entries[j].order
	})
	return entries
}

// Result is the outcome of one importer in a run.
type Result struct {
	Name string
	// Rows is the number of data rows fetched.
	Rows int
	// Skipped is set when the sheet had no data rows and Import was not
	// called.
	Skipped  bool
	Err      error
	Duration time.Duration
}

// Report is the outcome of a run.
type Report struct {
	RunID   string
	Results []Result
}

// Failed returns the results that have an error.
func (rep Report) Failed() []Result {
	var out []Result
	for _, res := range rep.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Run imports the named importers, or all of them when names is empty, in
// run order. A failing importer does not stop the run; the returned error
// joins every failure. Cancelling ctx stops the run before the next
// importer.
func (r *Registry) Run(ctx context.Context, names ...string) (Report, error) {
	entries := r.sorted()

	if len(names) > 0 {
		want := make(map[string]bool, len(names))
		for _, n := range names {
			want[n] = true
		}
		filtered := entries[:0]
		for _, e := range entries {
			if want[e.imp.Name()] {
				filtered = append(filtered, e)
				delete(want, e.imp.Name())
			}
		}
		for _, n := range names {
			if want[n] {
				return Report{}, fmt.Errorf("run %q: %w", n, ErrUnknownImporter)
			}
		}
		entries = filtered
	}

	report := Report{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, report.RunID)
	log := logging.FromContext(ctx)
	log.Info("import run started", "importers", len(entries))

	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res := r.runOne(ctx, e.imp)
		report.Results = append(report.Results, res)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}

	log.Info("import run finished", "importers", len(report.Results), "failed", len(errs))
	return report, errors.Join(errs...)
}

func (r *Registry) runOne(ctx context.Context, imp Importer) Result {
	start := time.Now()
	res := Result{Name: imp.Name()}
	log := logging.WithFields(ctx, "importer", imp.Name(), "source", imp.Source().String())

	table, err := r.src.Table(ctx, imp.Source())
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		log.Error("fetch failed", "error", err)
		return res
	}
	res.Rows = len(table)

	if len(table) == 0 {
		res.Skipped = true
		res.Duration = time.Since(start)
		log.Warn("the returned sheet was not in CSV format or has no data rows")
		return res
	}

	if err := imp.Import(ctx, table); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		log.Error("import failed", "error", err)
		return res
	}

	res.Duration = time.Since(start)
	log.Info("finished importing", "rows", res.Rows, "duration_ms", res.Duration.Milliseconds())
	return res
}
