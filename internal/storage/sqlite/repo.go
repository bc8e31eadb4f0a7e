// Package sqlite implements the default storage.Repository on a local
// single-file SQLite database via database/sql. Inserts run inside one
// transaction with a prepared statement; SQLite has no bulk-load API like
// Postgres COPY, but a transaction keeps moderate volumes fast.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver; replace with your preferred driver if desired.
	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"egresos/internal/ddl"
	"egresos/internal/storage"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:egresos.db?cache=shared"
	//   "database/ministerio_de_salud_chile.db"
	DSN string

	// Table is the destination table name.
	Table string

	// Def is the table definition applied on first append.
	Def ddl.TableDef
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// Fail fast on invalid DSNs.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// TableExists asks sqlite_master for the destination table by name.
func (r *Repository) TableExists(ctx context.Context) (bool, error) {
	const q = `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, r.cfg.Table).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: table lookup: %w", err)
	}
	return true, nil
}

// YearExists reports whether any row carries the given discharge year.
func (r *Repository) YearExists(ctx context.Context, year int) (bool, error) {
	q := fmt.Sprintf(
		`SELECT 1 FROM %s WHERE "ANO_EGRESO" = ? LIMIT 1`,
		ddl.QuoteFQN(r.cfg.Table),
	)
	var one int
	err := r.db.QueryRowContext(ctx, q, year).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: year lookup: %w", err)
	}
	return true, nil
}

// Append creates the destination table if needed and inserts all rows inside
// a single transaction. A single bad row aborts the batch.
func (r *Repository) Append(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: Append: columns must not be empty")
	}

	create, err := ddl.BuildCreateTableSQL(r.cfg.Def)
	if err != nil {
		return 0, fmt.Errorf("sqlite: build create table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("sqlite: create table: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = ddl.QuoteIdent(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		ddl.QuoteFQN(r.cfg.Table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: Append: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// YearCounts returns per-year row counts ordered by year.
func (r *Repository) YearCounts(ctx context.Context) ([]storage.YearCount, error) {
	q := fmt.Sprintf(
		`SELECT "ANO_EGRESO", count(*) FROM %s GROUP BY "ANO_EGRESO" ORDER BY "ANO_EGRESO"`,
		ddl.QuoteFQN(r.cfg.Table),
	)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: year counts: %w", err)
	}
	defer rows.Close()

	var out []storage.YearCount
	for rows.Next() {
		var yc storage.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, fmt.Errorf("sqlite: scan year count: %w", err)
		}
		out = append(out, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: year counts: %w", err)
	}
	return out, nil
}
