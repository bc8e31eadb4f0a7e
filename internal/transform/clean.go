// Package transform implements the cleaning step between parse and persist:
// rows dominated by the '*' placeholder are dropped, and the columns the
// destination stores as integers are coerced from text.
package transform

import (
	"fmt"
	"strconv"

	"egresos/internal/records"
)

// DefaultThreshold is the fraction of a row's cells that may hold the
// placeholder before the row is considered unusable.
const DefaultThreshold = 0.5

// Cleaner configures the cleaning step.
type Cleaner struct {
	// Placeholder is the sentinel for withheld values, e.g. "*".
	Placeholder string

	// Threshold is the allowed placeholder fraction per row. A row is
	// dropped when its placeholder count exceeds
	// floor(len(columns) * Threshold). Zero means DefaultThreshold.
	Threshold float64

	// IntColumns are coerced to int64 after filtering. A surviving row with
	// a non-numeric value in one of these columns fails the whole clean.
	IntColumns []string
}

// Clean filters and coerces t, returning the cleaned table and the number of
// dropped rows. Column order is preserved; rows keep their relative order.
func (c Cleaner) Clean(t records.Table) (records.Table, int, error) {
	threshold := c.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	allowed := int(float64(t.NumColumns()) * threshold)

	intIdx := make([]int, 0, len(c.IntColumns))
	for _, name := range c.IntColumns {
		i := t.ColumnIndex(name)
		if i < 0 {
			return records.Table{}, 0, fmt.Errorf("transform: integer column %q not in table", name)
		}
		intIdx = append(intIdx, i)
	}

	kept := make([][]any, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		if c.placeholderCount(row) > allowed {
			dropped++
			continue
		}
		kept = append(kept, row)
	}

	for _, i := range intIdx {
		name := t.Columns[i]
		for n, row := range kept {
			s, ok := row[i].(string)
			if !ok {
				return records.Table{}, 0, fmt.Errorf("transform: column %q row %d: unexpected value %v", name, n+1, row[i])
			}
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return records.Table{}, 0, fmt.Errorf("transform: column %q row %d: %q is not an integer", name, n+1, s)
			}
			row[i] = v
		}
	}

	return records.Table{Columns: t.Columns, Rows: kept}, dropped, nil
}

func (c Cleaner) placeholderCount(row []any) int {
	n := 0
	for _, v := range row {
		if s, ok := v.(string); ok && s == c.Placeholder {
			n++
		}
	}
	return n
}
