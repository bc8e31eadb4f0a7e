// Package all registers every storage backend with the factory. Importing it
// for side effects is how cmd binaries opt in to the full backend set.
package all

import (
	_ "egresos/internal/storage/postgres"
	_ "egresos/internal/storage/sqlite"
)
