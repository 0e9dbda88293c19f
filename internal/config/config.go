// Package config loads the sheet import configuration.
//
// Configuration comes from a YAML file listing the sheets to import. A few
// settings can be overridden from the environment; every loaded config is
// validated so that misconfiguration fails before any sheet is fetched.
package config

import (
	"time"
)

// Config holds the import configuration.
type Config struct {
	// SpreadsheetID replaces the spreadsheet id of every sheet URL when set.
	// Env: SHEET_SPREADSHEET_ID
	SpreadsheetID string `yaml:"spreadsheet_id"`

	// Timeout bounds each remote fetch (default: 30s).
	Timeout Duration `yaml:"timeout"`

	Log LogConfig `yaml:"log"`

	Sheets []SheetConfig `yaml:"sheets"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info).
	// Env: LOG_LEVEL
	Level string `yaml:"level"`

	// Format is the log format: text or json (default: text).
	// Env: LOG_FORMAT
	Format string `yaml:"format"`
}

// SheetConfig describes one sheet to import. Exactly one of URL and Path is
// set.
type SheetConfig struct {
	Name string `yaml:"name"`

	// URL is a spreadsheet edit or export URL.
	URL string `yaml:"url,omitempty"`

	// Path is a local .csv or .xlsx file.
	Path string `yaml:"path,omitempty"`

	// Sheet is the worksheet of an .xlsx file (default: the first one).
	Sheet string `yaml:"sheet,omitempty"`

	// Order positions the sheet in an import run. Sheets without an order
	// run last, in file order.
	Order *int `yaml:"order,omitempty"`

	// Output is the file the rows are written to; the extension selects
	// the format.
	Output string `yaml:"output"`
}

// Duration is a time.Duration read from strings such as "30s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Defaults returns the configuration used for unset values.
func Defaults() Config {
	return Config{
		Timeout: Duration(30 * time.Second),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
