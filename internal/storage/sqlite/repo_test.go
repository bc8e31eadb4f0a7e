package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"egresos/internal/schema"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	cfg := Config{
		DSN:   filepath.Join(t.TempDir(), "egresos_test.db"),
		Table: schema.TableName,
		Def:   schema.TableDef(),
	}
	r, closeFn, err := NewRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(closeFn)
	return r
}

// dischargeRow builds one canonical-width row with the given year. Integer
// columns carry int64, everything else strings, as produced by the cleaner.
func dischargeRow(year int64) []any {
	row := make([]any, 0, len(schema.Columns()))
	for _, col := range schema.Columns() {
		switch col {
		case "COMUNA_RESIDENCIA":
			row = append(row, int64(13101))
		case "REGION_RESIDENCIA":
			row = append(row, int64(13))
		case "ANO_EGRESO":
			row = append(row, year)
		default:
			row = append(row, "x")
		}
	}
	return row
}

func TestTableExistsBeforeAndAfterAppend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	ok, err := r.TableExists(ctx)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if ok {
		t.Fatal("table reported present before first append")
	}

	if _, err := r.Append(ctx, schema.Columns(), [][]any{dischargeRow(2019)}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ok, err = r.TableExists(ctx)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if !ok {
		t.Fatal("table reported missing after append")
	}
}

func TestAppendEmptyCreatesTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	n, err := r.Append(ctx, schema.Columns(), nil)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n != 0 {
		t.Fatalf("inserted = %d, want 0", n)
	}
	ok, err := r.TableExists(ctx)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if !ok {
		t.Fatal("empty append did not create the table")
	}
}

func TestYearExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	rows := [][]any{dischargeRow(2019), dischargeRow(2019)}
	n, err := r.Append(ctx, schema.Columns(), rows)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}

	ok, err := r.YearExists(ctx, 2019)
	if err != nil {
		t.Fatalf("YearExists(2019): %v", err)
	}
	if !ok {
		t.Fatal("loaded year reported absent")
	}

	ok, err = r.YearExists(ctx, 2020)
	if err != nil {
		t.Fatalf("YearExists(2020): %v", err)
	}
	if ok {
		t.Fatal("unloaded year reported present")
	}
}

func TestYearCountsOrderedByYear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	rows := [][]any{
		dischargeRow(2021),
		dischargeRow(2019),
		dischargeRow(2019),
		dischargeRow(2020),
	}
	if _, err := r.Append(ctx, schema.Columns(), rows); err != nil {
		t.Fatalf("Append: %v", err)
	}

	counts, err := r.YearCounts(ctx)
	if err != nil {
		t.Fatalf("YearCounts: %v", err)
	}
	want := []struct{ year, count int64 }{{2019, 2}, {2020, 1}, {2021, 1}}
	if len(counts) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(counts), len(want), counts)
	}
	for i, w := range want {
		if counts[i].Year != w.year || counts[i].Count != w.count {
			t.Fatalf("counts[%d] = %+v, want (%d, %d)", i, counts[i], w.year, w.count)
		}
	}
}

func TestAppendRowWidthMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	if _, err := r.Append(ctx, schema.Columns(), [][]any{{"too", "short"}}); err == nil {
		t.Fatal("short row accepted")
	}
}

func TestNewRepositoryEmptyDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{Table: "t"}); err == nil {
		t.Fatal("empty DSN accepted")
	}
}
