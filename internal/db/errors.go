package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrKeyExists   = errors.New("db: key already exists")
	ErrIndexExists = errors.New("db: index already exists")
)

// Op constants map to Redis and Elasticsearch operation names for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpDel         = "DEL"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpExists      = "EXISTS"
	OpScan        = "SCAN"
	OpGet         = "GET"
	OpSet         = "SET"
	OpIncr        = "INCR"
	OpExpire      = "EXPIRE"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"

	OpESSearch = "_search"
	OpESIndex  = "_doc"
	OpESDelete = "_delete"
	OpESCreate = "_create_index"
	OpESPing   = "_ping"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
