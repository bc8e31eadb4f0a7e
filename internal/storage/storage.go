// Package storage defines the destination contract for discharge loads and a
// small factory over the available backends. Backends register themselves in
// init (see internal/storage/all) so callers only name a kind.
package storage

import (
	"context"
	"fmt"
	"sync"

	"egresos/internal/ddl"
)

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend implementation, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is backend-specific: a file path or file: URI for sqlite, a
	// postgresql:// URL for postgres.
	DSN string

	// Table is the destination table name.
	Table string

	// Def is the destination table definition, used to create the table on
	// first append.
	Def ddl.TableDef
}

// YearCount is one row of the validation report.
type YearCount struct {
	Year  int64
	Count int64
}

// Repository is the destination for cleaned discharge records. A missing
// destination table is an explicit, queryable state here rather than a
// driver error: callers ask TableExists instead of catching "no such table".
type Repository interface {
	// TableExists reports whether the destination table has been created.
	TableExists(ctx context.Context) (bool, error)

	// YearExists reports whether at least one row with the given discharge
	// year is present. The table must exist.
	YearExists(ctx context.Context, year int) (bool, error)

	// Append creates the table if needed and inserts all rows in one
	// transaction, aligned to columns. Returns rows inserted.
	Append(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// YearCounts returns per-year row counts ordered by year. The table
	// must exist.
	YearCounts(ctx context.Context) ([]YearCount, error)

	// Close releases the underlying connection.
	Close()
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the Factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// Open builds a Repository for cfg.Kind via the registered factory.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}
