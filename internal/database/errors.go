package database

import (
	"errors"
	"fmt"
)

// OpenError indicates the database file could not be opened or is not a
// usable SQLite database.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open database %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// IsOpenError reports whether err is an OpenError (even when wrapped).
func IsOpenError(err error) bool {
	var target *OpenError
	return errors.As(err, &target)
}

// SchemaError indicates a DDL conflict such as creating a duplicate table or
// dropping a table that does not exist.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on table %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err is a SchemaError (even when wrapped).
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// ConstraintError indicates a row that violates a NOT NULL, uniqueness or
// type constraint declared on the table.
type ConstraintError struct {
	Table string
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation on table %s: %v", e.Table, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsConstraintError reports whether err is a ConstraintError (even when wrapped).
func IsConstraintError(err error) bool {
	var target *ConstraintError
	return errors.As(err, &target)
}

// QueryError indicates malformed input (bad identifier, empty criteria,
// invalid ordering) or a query the engine rejected.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error in %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsQueryError reports whether err is a QueryError (even when wrapped).
func IsQueryError(err error) bool {
	var target *QueryError
	return errors.As(err, &target)
}

// UseAfterCloseError indicates an operation was invoked on a closed Manager.
type UseAfterCloseError struct {
	Op string
}

func (e *UseAfterCloseError) Error() string {
	return fmt.Sprintf("%s called on closed database manager", e.Op)
}

// IsUseAfterCloseError reports whether err is a UseAfterCloseError (even when wrapped).
func IsUseAfterCloseError(err error) bool {
	var target *UseAfterCloseError
	return errors.As(err, &target)
}
