package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound  = errors.New("db: key not found")
	ErrNotConnected = errors.New("db: not connected")
)

// Op constants name the failing command or query for error context.
const (
	OpConnect = "CONNECT"
	OpPing    = "PING"
	OpGet     = "GET"
	OpSet     = "SET"
	OpDel     = "DEL"
	OpExists  = "EXISTS"
	OpScan    = "SCAN"

	OpFindAthletes  = "athletes.find"
	OpCountAthletes = "athletes.count"
	OpStats         = "athletes.stats"
	OpSchools       = "schools.list"
	OpSports        = "sports.list"
	OpConferences   = "schools.conferences"
	OpGrades        = "athletes.grades"
	OpCategories    = "categories.list"
	OpMigrate       = "migrate"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
