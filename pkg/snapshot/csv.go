package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadCSV reads a raw snapshot table from a CSV file. The first row is the
// header; header names are trimmed but otherwise kept verbatim so the schema
// reconciler sees exactly what the producer wrote.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("snapshot %s: empty file", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t := NewTable(name)
	for _, h := range records[0] {
		t.Columns = append(t.Columns, strings.TrimSpace(h))
	}

	for _, rec := range records[1:] {
		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
