package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Output extensions the sink can write.
var outputExts = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// Source extensions a local path may have.
var pathExts = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// Load reads the YAML file at path, applies defaults and environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for an already opened document.
func Parse(r io.Reader) (*Config, error) {
	cfg := Defaults()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SHEET_SPREADSHEET_ID"); v != "" {
		c.SpreadsheetID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// UnmarshalYAML reads a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(c.Sheets) == 0 {
		errs = append(errs, "at least one sheet is required")
	}

	seen := make(map[string]bool, len(c.Sheets))
	for i, s := range c.Sheets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			errs = append(errs, fmt.Sprintf("sheet %s: name is required", name))
		} else if seen[name] {
			errs = append(errs, fmt.Sprintf("sheet %s: duplicate name", name))
		}
		seen[s.Name] = true

		switch {
		case s.URL == "" && s.Path == "":
			errs = append(errs, fmt.Sprintf("sheet %s: one of url or path is required", name))
		case s.URL != "" && s.Path != "":
			errs = append(errs, fmt.Sprintf("sheet %s: url and path are mutually exclusive", name))
		case s.Path != "" && !pathExts[strings.ToLower(filepath.Ext(s.Path))]:
			errs = append(errs, fmt.Sprintf("sheet %s: path must be a .csv or .xlsx file", name))
		}

		if s.Output == "" {
			errs = append(errs, fmt.Sprintf("sheet %s: output is required", name))
		} else if !outputExts[strings.ToLower(filepath.Ext(s.Output))] {
			errs = append(errs, fmt.Sprintf("sheet %s: output must be .json, .yaml, .yml or .toml", name))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Sheet returns the sheet with the given name.
func (c *Config) Sheet(name string) (SheetConfig, bool) {
	for _, s := range c.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return SheetConfig{}, false
}
