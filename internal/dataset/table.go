// internal/dataset/table.go

// Package dataset provides the CSV-backed table the batch pipelines
// operate on: ordered columns, string cells, typed accessors, and the
// imputation statistics the cleaning stage needs.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Table is an in-memory CSV dataset. Column order is significant.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Missing reports whether a cell counts as a missing value.
func Missing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

// LoadCSV reads a headered CSV file into a Table.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

func (t *Table) NumRows() int { return len(t.Rows) }
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnIndex returns the position of name, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the raw cell at (row, col); out-of-range columns read as
// missing so short rows do not panic.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// SetCell grows the row if needed before writing.
func (t *Table) SetCell(row, col int, value string) {
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = value
}

// Float parses the cell at (row, col); missing or malformed cells return ok=false.
func (t *Table) Float(row, col int) (float64, bool) {
	cell := t.Cell(row, col)
	if Missing(cell) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AddColumn appends a new column. values must have one entry per row.
func (t *Table) AddColumn(name string, values []string) error {
	if len(values) != t.NumRows() {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), t.NumRows())
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// Filter keeps only rows for which keep returns true and reports how
// many were dropped.
func (t *Table) Filter(keep func(row int) bool) int {
	kept := t.Rows[:0]
	dropped := 0
	for i := range t.Rows {
		if keep(i) {
			kept = append(kept, t.Rows[i])
		} else {
			dropped++
		}
	}
	t.Rows = kept
	return dropped
}

// DropDuplicates removes exact duplicate rows, keeping the first
// occurrence, and reports how many were removed.
func (t *Table) DropDuplicates() int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	removed := 0
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.Rows = kept
	return removed
}

// IsNumeric reports whether every non-missing cell in the column parses
// as a float.
func (t *Table) IsNumeric(col int) bool {
	any := false
	for row := range t.Rows {
		cell := t.Cell(row, col)
		if Missing(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return false
		}
		any = true
	}
	return any
}

// columnFloats collects the non-missing parsed values of a column.
func (t *Table) columnFloats(col int) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for row := range t.Rows {
		if v, ok := t.Float(row, col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Median returns the median of a numeric column, ignoring missing
// cells. Even-count columns take the midpoint of the two middle values.
func (t *Table) Median(col int) (float64, bool) {
	vals := t.columnFloats(col)
	if len(vals) == 0 {
		return 0, false
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], true
	}
	return (vals[mid-1] + vals[mid]) / 2, true
}

// Mode returns the most frequent non-missing value of a column; ties
// break to the lexicographically smallest value so imputation is
// deterministic.
func (t *Table) Mode(col int) (string, bool) {
	counts := make(map[string]int)
	for row := range t.Rows {
		cell := t.Cell(row, col)
		if Missing(cell) {
			continue
		}
		counts[cell]++
	}
	if len(counts) == 0 {
		return "", false
	}

	best, bestCount := "", -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, true
}

// CountMissing returns the number of missing cells in a column.
func (t *Table) CountMissing(col int) int {
	n := 0
	for row := range t.Rows {
		if Missing(t.Cell(row, col)) {
			n++
		}
	}
	return n
}

// Describe holds per-column descriptive statistics for the summary report.
type Describe struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// DescribeColumn computes count/mean/std/min/max over the non-missing
// values of a numeric column.
func (t *Table) DescribeColumn(col int) (Describe, bool) {
	vals := t.columnFloats(col)
	if len(vals) == 0 {
		return Describe{}, false
	}

	mean, std := stat.MeanStdDev(vals, nil)
	d := Describe{Count: len(vals), Mean: mean, Std: std, Min: vals[0], Max: vals[0]}
	for _, v := range vals {
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	return d, true
}

// Select returns a new table holding the named columns in the given
// order. Unknown columns read as empty cells.
func (t *Table) Select(columns []string) *Table {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
	}

	out := &Table{Columns: append([]string(nil), columns...)}
	for row := range t.Rows {
		newRow := make([]string, len(columns))
		for i, col := range idx {
			if col >= 0 {
				newRow[i] = t.Cell(row, col)
			}
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}
