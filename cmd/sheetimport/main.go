// Command sheetimport converts spreadsheet exports into rows and runs
// configured sheet imports.
//
//	sheetimport table items.csv --format yaml
//	sheetimport cell "a=1,b=2" --shape map
//	sheetimport run --config sheets.yaml items levels
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
