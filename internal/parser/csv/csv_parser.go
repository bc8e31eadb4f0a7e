// Package csv reads a delimited export fully into memory as a records.Table.
// It is strict by design: the surrounding pipeline treats a malformed export
// as fatal, so there is no soft-skip of bad rows. Width is enforced against
// the header for every record by encoding/csv.
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"

	"egresos/internal/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures the parser. All fields are optional; zero values mean
// comma-delimited UTF-8 input with values kept verbatim.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	// Ministry discharge exports use ';'.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// Encoding, when non-nil, decodes raw bytes before CSV parsing.
	// Discharge exports are Latin-1 (charmap.ISO8859_1).
	Encoding encoding.Encoding
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes the input and returns a Table whose Columns are the trimmed
// header cells and whose cells are strings. The first record is the header;
// every following record must have the same width. Any read or parse error
// aborts the whole parse.
func (p *Parser) Parse(r io.Reader) (records.Table, error) {
	if p.opt.Encoding != nil {
		r = p.opt.Encoding.NewDecoder().Reader(r)
	}

	cr := stdcsv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	h, err := cr.Read()
	if err != nil {
		return records.Table{}, fmt.Errorf("csv: read header: %w", err)
	}
	header := make([]string, len(h))
	for i, col := range h {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		header[i] = strings.TrimSpace(c)
	}

	var rows [][]any
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records.Table{}, fmt.Errorf("csv: line %d: %w", line, err)
		}
		rec := make([]any, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[i] = val
		}
		rows = append(rows, rec)
	}

	return records.Table{Columns: header, Rows: rows}, nil
}
