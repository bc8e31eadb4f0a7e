// Package etl runs the discharge load pipeline end to end: year extraction,
// the per-year existence check, parse, clean, append, and the closing
// validation report. Stages run strictly in sequence on one connection.
package etl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding/charmap"

	"egresos/internal/parser/csv"
	"egresos/internal/schema"
	"egresos/internal/storage"
	"egresos/internal/transform"
	"egresos/internal/yearfile"
)

// reportLimit caps how many (year, count) pairs the validation report prints.
const reportLimit = 100

// Options configures one pipeline run.
type Options struct {
	// FilePath is the CSV export to load. Empty means "no work to do": the
	// run still opens the database and prints the validation report.
	FilePath string

	// Storage selects and configures the destination backend.
	Storage storage.Config
}

// Run executes the pipeline. The validation report runs last on every path,
// including when no file path was supplied or the year was already loaded.
func Run(ctx context.Context, opt Options) error {
	repo, err := storage.Open(ctx, opt.Storage)
	if err != nil {
		return err
	}
	defer repo.Close()
	fmt.Printf("[INFO]: Connection Checked: %s\n", opt.Storage.DSN)
	fmt.Println("[INFO]: Database connection")

	if opt.FilePath == "" {
		fmt.Println("No path was provided")
	} else if err := loadFile(ctx, repo, opt.FilePath); err != nil {
		return err
	}

	return report(ctx, repo)
}

// loadFile ingests one export unless its year is already present.
func loadFile(ctx context.Context, repo storage.Repository, path string) error {
	fmt.Printf("File Path: %s\n", path)

	year, err := yearfile.FromPath(path)
	if err != nil {
		return err
	}

	loaded, err := yearLoaded(ctx, repo, year)
	if err != nil {
		return err
	}
	if loaded {
		fmt.Println("The data already exists in the database. No action was taken.")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// Checksum the raw bytes while parsing so the banner identifies the
	// exact export that was ingested.
	hasher := xxh3.New()
	p := csv.NewParser(csv.Options{
		Comma:     ';',
		TrimSpace: true,
		Encoding:  charmap.ISO8859_1,
	})
	raw, err := p.Parse(io.TeeReader(f, hasher))
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := schema.ValidateHeader(raw.Columns); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	fmt.Printf("[INFO]: Load data: %s rows from %s (xxh3=%016x)\n",
		humanize.Comma(int64(raw.NumRows())), filepath.Base(path), hasher.Sum64())

	cleaner := transform.Cleaner{
		Placeholder: schema.Placeholder,
		Threshold:   transform.DefaultThreshold,
		IntColumns:  schema.IntColumns(),
	}
	cleaned, dropped, err := cleaner.Clean(raw)
	if err != nil {
		return fmt.Errorf("clean %s: %w", path, err)
	}
	fmt.Printf("[INFO]: Preprocess data: %d rows dropped\n", dropped)

	n, err := repo.Append(ctx, schema.Columns(), cleaned.Rows)
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	fmt.Printf("[INFO]: Loads data into DB: %s rows\n", humanize.Comma(n))
	return nil
}

// yearLoaded answers the load precondition. A missing destination table is
// an ordinary first-run state, distinct from a present-but-empty table.
func yearLoaded(ctx context.Context, repo storage.Repository, year int) (bool, error) {
	ok, err := repo.TableExists(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return repo.YearExists(ctx, year)
}

// report prints up to reportLimit (year, count) pairs. A missing table means
// no loads have happened yet; it prints nothing and is not an error.
func report(ctx context.Context, repo storage.Repository) error {
	ok, err := repo.TableExists(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	counts, err := repo.YearCounts(ctx)
	if err != nil {
		return err
	}
	for i, yc := range counts {
		if i >= reportLimit {
			break
		}
		fmt.Printf("(%d, %d)\n", yc.Year, yc.Count)
	}
	return nil
}
