package db

// Op names used for error context. Redis ops use the command name.
const (
	OpPing       = "PING"
	OpSMembers   = "SMEMBERS"
	OpSAdd       = "SADD"
	OpSRem       = "SREM"
	OpQuery      = "QUERY"
	OpQueryRow   = "QUERY ROW"
	OpBuildQuery = "BUILD QUERY"
	OpMigrate    = "MIGRATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
