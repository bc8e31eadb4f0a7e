// Package schema fixes the canonical shape of a discharge record set: the
// ordered column list of the egresos_pacientes table, the columns stored as
// integers, and the header contract a source export must satisfy.
package schema

import (
	"fmt"
	"strings"

	"egresos/internal/ddl"
)

// TableName is the destination table for all loads.
const TableName = "egresos_pacientes"

// YearColumn discriminates loads; one load covers exactly one year.
const YearColumn = "ANO_EGRESO"

// Placeholder is the sentinel the ministry uses for withheld values.
const Placeholder = "*"

// columns is the canonical column order. Source exports carry these names;
// matching is by name (case-insensitive), never by position.
var columns = []string{
	"PERTENENCIA_ESTABLECIMIENTO_SALUD",
	"SEXO",
	"GRUPO_EDAD",
	"ETNIA",
	"GLOSA_PAIS_ORIGEN",
	"COMUNA_RESIDENCIA",
	"GLOSA_COMUNA_RESIDENCIA",
	"REGION_RESIDENCIA",
	"GLOSA_REGION_RESIDENCIA",
	"PREVISION",
	"GLOSA_PREVISION",
	"ANO_EGRESO",
	"DIAG1",
	"DIAG2",
	"DIAS_ESTADA",
	"CONDICION_EGRESO",
	"INTERV_Q",
	"PROCED",
}

// intColumns are stored as INTEGER; everything else stays TEXT.
var intColumns = []string{"COMUNA_RESIDENCIA", "REGION_RESIDENCIA", "ANO_EGRESO"}

// Columns returns a copy of the canonical column order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// IntColumns returns a copy of the integer-typed column names.
func IntColumns() []string {
	out := make([]string, len(intColumns))
	copy(out, intColumns)
	return out
}

// ValidateHeader checks a parsed CSV header against the canonical schema.
// Names are compared case-insensitively after trimming; order must match the
// canonical order. A mismatch fails with the position, the expected name and
// the name found, so a reordered or truncated export is rejected instead of
// silently mislabeling data.
func ValidateHeader(header []string) error {
	if len(header) != len(columns) {
		return fmt.Errorf("schema: header has %d columns, want %d", len(header), len(columns))
	}
	for i, got := range header {
		want := columns[i]
		if !strings.EqualFold(strings.TrimSpace(got), want) {
			return fmt.Errorf("schema: header column %d is %q, want %q", i+1, got, want)
		}
	}
	return nil
}

// IsIntColumn reports whether the named canonical column is integer-typed.
func IsIntColumn(name string) bool {
	for _, c := range intColumns {
		if c == name {
			return true
		}
	}
	return false
}

// TableDef builds the destination table definition. No primary key: the
// table is append-only and per-year uniqueness is the pipeline's precondition
// check, not a schema constraint.
func TableDef() ddl.TableDef {
	defs := make([]ddl.ColumnDef, 0, len(columns))
	for _, name := range columns {
		typ := "TEXT"
		if IsIntColumn(name) {
			typ = "INTEGER"
		}
		defs = append(defs, ddl.ColumnDef{
			Name:     name,
			SQLType:  typ,
			Nullable: true,
		})
	}
	return ddl.TableDef{FQN: TableName, Columns: defs}
}
