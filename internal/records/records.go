// Package records defines the in-memory tabular value passed between
// pipeline stages: an ordered column list plus rows aligned to it. Cell
// values are strings as parsed and become typed (int64) after coercion.
package records

// Table is a column-ordered, fully materialized record set. Rows are aligned
// to Columns by index; len(row) == len(Columns) for every row.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NumRows returns the number of data rows.
func (t Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the number of columns.
func (t Table) NumColumns() int { return len(t.Columns) }

// ColumnIndex returns the index of the named column, or -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
