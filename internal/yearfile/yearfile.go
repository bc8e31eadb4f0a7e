// Package yearfile extracts the discharge year encoded in an export's file
// name. Ministry exports end the base name with the year, e.g.
// "egresos_2019.csv" or "ENO_EGRESOS_2021.csv.gz".
package yearfile

import (
	"fmt"
	"strconv"
	"strings"
)

// FromPath derives the 4-digit year from the trailing characters of the
// file's base name, using the stem before the first extension dot. A stem
// whose last 4 characters are not ASCII digits is rejected; silently wrong
// years must not reach the database.
func FromPath(path string) (int, error) {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	stem := base
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	if len(stem) < 4 {
		return 0, fmt.Errorf("yearfile: %q: base name %q too short to carry a 4-digit year", path, stem)
	}
	suffix := stem[len(stem)-4:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("yearfile: %q: expected 4-digit year suffix, got %q", path, suffix)
		}
	}
	year, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("yearfile: %q: parse year %q: %w", path, suffix, err)
	}
	return year, nil
}
