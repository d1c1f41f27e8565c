package database

import (
	"strings"
)

// IsUniqueViolation checks if the error is a SQLite UNIQUE constraint
// failure. Works with both mattn/go-sqlite3 and modernc.org/sqlite drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "SQLITE_CONSTRAINT_UNIQUE") ||
		strings.Contains(errStr, "(2067)") // SQLITE_CONSTRAINT_UNIQUE extended code
}
