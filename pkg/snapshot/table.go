package snapshot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Row is one raw record keyed by source column name.
type Row map[string]string

// Table is a raw tabular snapshot as produced by a collector or loaded from
// CSV. Column order and row order are preserved so downstream processing is
// deterministic.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column set.
func NewTable(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Columns not declared on the table are added on first
// use, in sorted order so the column list is stable across runs.
func (t *Table) Append(row Row) {
	var added []string
	for col := range row {
		if !t.HasColumn(col) {
			added = append(added, col)
		}
	}
	if len(added) > 0 {
		sort.Strings(added)
		t.Columns = append(t.Columns, added...)
	}
	t.Rows = append(t.Rows, row)
}

// ParseNumber converts a raw cell to a float64. Unparseable or empty values
// become 0 so degenerate inputs never abort a run.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCount converts a raw cell to a non-negative integer counter.
func ParseCount(raw string) int64 {
	v := ParseNumber(raw)
	if v < 0 {
		return 0
	}
	return int64(v)
}

// timeLayouts are the timestamp formats observed across platform snapshots.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102_150405",
}

// ParseTime converts a raw cell to a timestamp. Unparsable values return nil
// rather than an error; callers treat nil as "date unknown".
func ParseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}

// FormatNumber renders a float the way output tables expect it.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (t *Table) String() string {
	return fmt.Sprintf("%s (%d columns, %d rows)", t.Name, len(t.Columns), len(t.Rows))
}
