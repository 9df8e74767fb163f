// Package table loads dated revenue series from delimited files and
// spreadsheets, and caches loaded tables by source.
package table

import (
	"fmt"
	"time"
)

// Row is one dated revenue observation.
type Row struct {
	Date    time.Time
	Revenue float64
}

// Table is an ordered set of revenue rows read from a single source. A Table
// handed out by a Cache is shared and must not be modified.
type Table struct {
	Source string
	Rows   []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// LoadError reports a table that could not be read or parsed. Line is the
// 1-based line (or spreadsheet row) of the offending record, or 0 when the
// failure is not tied to a record.
type LoadError struct {
	Source string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to load %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
