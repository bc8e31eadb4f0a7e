// Package postgres implements storage.Repository on Postgres using pgx v5.
// It exists for deployments that keep the discharge table in a shared
// database instead of a local file; semantics match the SQLite backend,
// including implicit table creation on first append. Bulk inserts use COPY.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"egresos/internal/ddl"
	"egresos/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	// DSN is a pgxpool connection string, e.g. "postgresql://...".
	DSN string

	// Table is the destination table name, optionally schema-qualified.
	Table string

	// Def is the table definition applied on first append.
	Def ddl.TableDef
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for
// cleanup. The pool is pinged so a bad DSN fails here, not mid-load.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// TableExists resolves the destination table name via to_regclass, which
// returns NULL for unknown relations.
func (r *Repository) TableExists(ctx context.Context) (bool, error) {
	var reg *string
	err := r.pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, ddl.QuoteFQN(r.cfg.Table)).Scan(&reg)
	if err != nil {
		return false, fmt.Errorf("postgres: table lookup: %w", err)
	}
	return reg != nil, nil
}

// YearExists reports whether any row carries the given discharge year.
func (r *Repository) YearExists(ctx context.Context, year int) (bool, error) {
	q := fmt.Sprintf(
		`SELECT 1 FROM %s WHERE "ANO_EGRESO" = $1 LIMIT 1`,
		ddl.QuoteFQN(r.cfg.Table),
	)
	var one int
	err := r.pool.QueryRow(ctx, q, year).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: year lookup: %w", err)
	}
	return true, nil
}

// Append creates the destination table if needed and bulk-inserts all rows
// with COPY. COPY is atomic per statement, so a single bad row aborts the
// whole batch.
func (r *Repository) Append(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: Append: columns must not be empty")
	}

	create, err := ddl.BuildCreateTableSQL(r.cfg.Def)
	if err != nil {
		return 0, fmt.Errorf("postgres: build create table: %w", err)
	}
	if _, err := r.pool.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("postgres: create table: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("postgres: Append: row %d length %d != columns length %d", i+1, len(row), len(columns))
		}
	}

	n, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier(strings.Split(r.cfg.Table, ".")),
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

// YearCounts returns per-year row counts ordered by year.
func (r *Repository) YearCounts(ctx context.Context) ([]storage.YearCount, error) {
	q := fmt.Sprintf(
		`SELECT "ANO_EGRESO", count(*) FROM %s GROUP BY "ANO_EGRESO" ORDER BY "ANO_EGRESO"`,
		ddl.QuoteFQN(r.cfg.Table),
	)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: year counts: %w", err)
	}
	defer rows.Close()

	var out []storage.YearCount
	for rows.Next() {
		var yc storage.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, fmt.Errorf("postgres: scan year count: %w", err)
		}
		out = append(out, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: year counts: %w", err)
	}
	return out, nil
}
