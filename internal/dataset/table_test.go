// internal/dataset/table_test.go
package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable() *Table {
	return &Table{
		Columns: []string{"age", "income", "status"},
		Rows: [][]string{
			{"30", "50000", "Employed"},
			{"40", "", "Employed"},
			{"30", "50000", "Employed"},
			{"25", "70000", "Unemployed"},
		},
	}
}

func TestDropDuplicates(t *testing.T) {
	tb := newTestTable()
	removed := tb.DropDuplicates()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, tb.NumRows())

	// Idempotent on already-deduplicated data.
	assert.Equal(t, 0, tb.DropDuplicates())
	assert.Equal(t, 3, tb.NumRows())
}

func TestMedianAndMode(t *testing.T) {
	tb := newTestTable()

	median, ok := tb.Median(tb.ColumnIndex("income"))
	require.True(t, ok)
	assert.InDelta(t, 50000, median, 1e-9)

	mode, ok := tb.Mode(tb.ColumnIndex("status"))
	require.True(t, ok)
	assert.Equal(t, "Employed", mode)
}

func TestMedianEvenCountInterpolates(t *testing.T) {
	tb := &Table{
		Columns: []string{"x"},
		Rows:    [][]string{{"1"}, {"2"}, {"3"}, {"4"}},
	}
	median, ok := tb.Median(0)
	require.True(t, ok)
	assert.InDelta(t, 2.5, median, 1e-9)

	pair := &Table{
		Columns: []string{"x"},
		Rows:    [][]string{{"30"}, {"40"}},
	}
	median, ok = pair.Median(0)
	require.True(t, ok)
	assert.InDelta(t, 35, median, 1e-9)
}

func TestModeTieBreaksDeterministically(t *testing.T) {
	tb := &Table{
		Columns: []string{"c"},
		Rows:    [][]string{{"B"}, {"A"}, {"B"}, {"A"}},
	}
	mode, ok := tb.Mode(0)
	require.True(t, ok)
	assert.Equal(t, "A", mode)
}

func TestFloatTreatsMissingAndMalformed(t *testing.T) {
	tb := newTestTable()
	col := tb.ColumnIndex("income")

	_, ok := tb.Float(1, col)
	assert.False(t, ok, "missing cell")

	v, ok := tb.Float(0, col)
	require.True(t, ok)
	assert.Equal(t, 50000.0, v)

	tb.SetCell(0, col, "not-a-number")
	_, ok = tb.Float(0, col)
	assert.False(t, ok)
}

func TestIsNumeric(t *testing.T) {
	tb := newTestTable()
	assert.True(t, tb.IsNumeric(tb.ColumnIndex("age")))
	assert.True(t, tb.IsNumeric(tb.ColumnIndex("income")), "missing cells are ignored")
	assert.False(t, tb.IsNumeric(tb.ColumnIndex("status")))
}

func TestSelectPadsUnknownColumns(t *testing.T) {
	tb := newTestTable()
	out := tb.Select([]string{"income", "nonexistent"})

	assert.Equal(t, []string{"income", "nonexistent"}, out.Columns)
	assert.Equal(t, tb.NumRows(), out.NumRows())
	assert.Equal(t, "50000", out.Cell(0, 0))
	assert.Equal(t, "", out.Cell(0, 1))
}

func TestWriteAndLoadCSVRoundTrip(t *testing.T) {
	tb := newTestTable()
	path := filepath.Join(t.TempDir(), "out", "data.csv")

	require.NoError(t, tb.WriteCSV(path))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, tb.Columns, loaded.Columns)
	assert.Equal(t, tb.NumRows(), loaded.NumRows())
	assert.Equal(t, "Unemployed", loaded.Cell(3, 2))
}

func TestDescribeColumn(t *testing.T) {
	tb := &Table{
		Columns: []string{"x"},
		Rows:    [][]string{{"1"}, {"2"}, {"3"}},
	}
	d, ok := tb.DescribeColumn(0)
	require.True(t, ok)
	assert.Equal(t, 3, d.Count)
	assert.InDelta(t, 2.0, d.Mean, 1e-9)
	assert.InDelta(t, 1.0, d.Std, 1e-9)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 3.0, d.Max)
}
