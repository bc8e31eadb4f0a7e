// Command egresos loads one yearly CSV export of Chilean hospital discharge
// records into the egresos_pacientes table and prints per-year row counts.
//
// Usage:
//
//	egresos -f data/egresos_2019.csv
//	egresos --file=data/egresos_2019.csv
//
// Without -f the run only prints the validation report. The destination
// defaults to a local SQLite file; EGRESOS_DB_KIND and EGRESOS_DB_DSN
// select a different backend or location (e.g. kind=postgres with a
// postgresql:// DSN).
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"egresos/internal/etl"
	"egresos/internal/schema"
	"egresos/internal/storage"

	// register all backends with the storage factory.
	_ "egresos/internal/storage/all"
)

// defaultDSN is the historical location of the ministry database file.
const defaultDSN = "database/ministerio_de_salud_chile.db"

func main() {
	var filePath string
	flag.StringVarP(&filePath, "file", "f", "", "path to a semicolon-delimited egresos CSV export")
	// Unknown options print an error and exit 2, getopt-style.
	flag.Parse()

	kind := os.Getenv("EGRESOS_DB_KIND")
	if kind == "" {
		kind = "sqlite"
	}
	dsn := os.Getenv("EGRESOS_DB_DSN")
	if dsn == "" {
		dsn = defaultDSN
	}

	if kind == "sqlite" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." && dir != "/" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("create database directory: %v", err)
			}
		}
	}

	runID := uuid.NewString()
	log.Printf("run %s: backend=%s table=%s", runID, kind, schema.TableName)

	opt := etl.Options{
		FilePath: filePath,
		Storage: storage.Config{
			Kind:  kind,
			DSN:   dsn,
			Table: schema.TableName,
			Def:   schema.TableDef(),
		},
	}

	if err := etl.Run(context.Background(), opt); err != nil {
		log.Fatalf("%v", err)
	}
}
