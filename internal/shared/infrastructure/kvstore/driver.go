package kvstore

import "strings"

// Driver represents a key-value backend type.
type Driver string

const (
	// DriverMemory keeps values in process memory.
	DriverMemory Driver = "memory"
	// DriverFile keeps one file per key in a directory.
	DriverFile Driver = "file"
	// DriverSQLite stores values in a SQLite table.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores values in a PostgreSQL table.
	DriverPostgres Driver = "postgres"
	// DriverRedis stores values in Redis.
	DriverRedis Driver = "redis"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverRedis:
		return true
	default:
		return false
	}
}

// DetectDriver infers the backend from a connection string.
// An empty URL selects the file backend for zero-config local use.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverFile
	case url == ":memory:" || strings.HasPrefix(url, "memory://"):
		return DriverMemory
	case strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://"):
		return DriverRedis
	case strings.HasPrefix(url, "sqlite://") ||
		strings.HasPrefix(url, "file:") ||
		strings.HasSuffix(url, ".db") ||
		strings.HasSuffix(url, ".sqlite") ||
		strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return DriverFile
	}
}
