// Package source retrieves sheet export text from a spreadsheet URL or a
// local .csv or .xlsx file.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shapestone/shape-sheet/internal/logging"
	"github.com/shapestone/shape-sheet/pkg/sheet"
)

// DefaultMaxBytes bounds the size of a fetched export.
const DefaultMaxBytes = 32 << 20

var (
	// ErrNotSpreadsheetURL indicates a URL without a /d/<id>/ segment.
	ErrNotSpreadsheetURL = errors.New("not a spreadsheet URL")

	// ErrNoSource indicates a Spec with neither URL nor Path.
	ErrNoSource = errors.New("no url or path")
)

// Spec locates one sheet. Exactly one of URL and Path is set.
type Spec struct {
	// URL is a spreadsheet edit URL, an export URL, or any URL serving
	// export text.
	URL string
	// Path is a local .csv or .xlsx file.
	Path string
	// Sheet selects the worksheet of an .xlsx file. Empty means the first.
	Sheet string
}

func (s Spec) String() string {
	if s.Path != "" {
		if s.Sheet != "" {
			return s.Path + "#" + s.Sheet
		}
		return s.Path
	}
	return s.URL
}

// HTTPError reports a non-2xx response.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// ExportURL rewrites a spreadsheet edit URL into its CSV export URL.
//
//	https://docs.google.com/spreadsheets/d/<id>/edit#gid=7
//	-> https://docs.google.com/spreadsheets/d/<id>/export?format=csv&gid=7
//
// An export URL is kept as is. A non-empty spreadsheetID replaces <id>.
func ExportURL(rawURL, spreadsheetID string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("export url: %w", err)
	}

	segs := strings.Split(strings.TrimSuffix(u.Path, "/"), "/")
	idx := -1
	for i := 0; i+1 < len(segs); i++ {
		if segs[i] == "d" && segs[i+1] != "" {
			idx = i + 1
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("export url %q: %w", rawURL, ErrNotSpreadsheetURL)
	}
	if spreadsheetID != "" {
		segs[idx] = spreadsheetID
	}

	query := u.Query()
	if frag, err := url.ParseQuery(u.Fragment); err == nil {
		for k, vs := range frag {
			if query.Get(k) == "" && len(vs) > 0 {
				query.Set(k, vs[0])
			}
		}
	}

	last := len(segs) - 1
	switch {
	case last == idx:
		segs = append(segs, "export")
	case segs[last] == "edit" || segs[last] == "export":
		segs[last] = "export"
	default:
		return "", fmt.Errorf("export url %q: %w", rawURL, ErrNotSpreadsheetURL)
	}
	query.Set("format", "csv")

	u.Path = strings.Join(segs, "/")
	u.RawPath = ""
	u.Fragment = ""
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// Fetcher reads sheet export text. The zero Fetcher uses
// http.DefaultClient and DefaultMaxBytes with no timeout.
type Fetcher struct {
	Client *http.Client
	// SpreadsheetID replaces the id of every spreadsheet URL when set.
	SpreadsheetID string
	// Timeout bounds each remote fetch when positive.
	Timeout time.Duration
	// MaxBytes bounds a remote export when positive.
	MaxBytes int64
}

// Text returns the export text of spec.
func (f *Fetcher) Text(ctx context.Context, spec Spec) (string, error) {
	switch {
	case spec.Path != "":
		return ReadFile(spec.Path, spec.Sheet)
	case spec.URL != "":
		return f.get(ctx, spec.URL)
	default:
		return "", ErrNoSource
	}
}

// Table fetches spec and converts it to a sheet.Table.
func (f *Fetcher) Table(ctx context.Context, spec Spec) (sheet.Table, error) {
	text, err := f.Text(ctx, spec)
	if err != nil {
		return nil, err
	}
	table, err := sheet.ConvertToTable(text)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", spec, err)
	}
	return table, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, error) {
	target, err := ExportURL(rawURL, f.SpreadsheetID)
	if errors.Is(err, ErrNotSpreadsheetURL) {
		target = rawURL
	} else if err != nil {
		return "", err
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	logging.WithFields(ctx, "url", target).Debug("fetching sheet")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("fetch %s: export exceeds %d bytes", target, limit)
	}
	return string(data), nil
}

// ReadFile returns the export text of a local file. A .csv file is read as
// is; a worksheet of an .xlsx file is rendered to export text.
func ReadFile(path, sheetName string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err := ReadXLSXFile(path, sheetName)
		if err != nil {
			return "", err
		}
		return string(sheet.Render(records)), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
}
