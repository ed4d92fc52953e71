// Package database implements a generic, schema-agnostic data-access layer
// over a local SQLite file. Operations are parameterized by table name,
// ordered column definitions and ordered column/value pairs; callers compose
// these primitives into domain-specific storage.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	_ "modernc.org/sqlite"
)

// Manager owns a single connection to a SQLite database file for its entire
// lifetime. It is safe for concurrent use; a mutex serializes access since
// SQLite doesn't support concurrent writes.
type Manager struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	closed bool
}

// Open opens (or creates) the SQLite database file at path and verifies the
// connection. The returned Manager must be released with Close.
func Open(path string) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, &OpenError{Path: path, Err: errors.Join(err, closeErr)}
	}

	slog.Debug("Opened database", "path", path)
	return &Manager{db: db, path: path}, nil
}

// Path returns the database file path the manager was opened with.
func (m *Manager) Path() string {
	return m.path
}

// CreateTable creates a new table from the ordered schema. Re-creating an
// existing table fails with a SchemaError; guard with TableExists if needed.
func (m *Manager) CreateTable(table string, schema Schema) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureOpen("create_table"); err != nil {
		return err
	}
	if len(schema) == 0 {
		return &SchemaError{Table: table, Err: errors.New("empty schema descriptor")}
	}
	if err := validateIdent("create_table", table); err != nil {
		return err
	}
	for _, col := range schema {
		if err := validateIdent("create_table", col.Name); err != nil {
			return err
		}
	}

	if _, err := m.db.Exec(buildCreateTable(table, schema)); err != nil {
		return &SchemaError{Table: table, Err: err}
	}

	slog.Debug("Created table", "table", table, "columns", len(schema))
	return nil
}

// DropTable drops the named table unconditionally. Dropping a table that
// does not exist fails with a SchemaError.
func (m *Manager) DropTable(table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureOpen("drop_table"); err != nil {
		return err
	}
	if err := validateIdent("drop_table", table); err != nil {
		return err
	}

	if _, err := m.db.Exec("DROP TABLE " + table); err != nil {
		return &SchemaError{Table: table, Err: err}
	}

	slog.Debug("Dropped table", "table", table)
	return nil
}

// TableExists reports whether a table with the given name exists.
func (m *Manager) TableExists(table string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureOpen("table_exists"); err != nil {
		return false, err
	}
	if err := validateIdent("table_exists", table); err != nil {
		return false, err
	}

	var count int
	err := m.db.QueryRow(
		"SELECT count(name) FROM sqlite_master WHERE type = 'table' AND name = ?",
		table,
	).Scan(&count)
	if err != nil {
		return false, &QueryError{Op: "table_exists", Err: err}
	}
	return count > 0, nil
}

// Add inserts a single row. Values are bound as parameters, never
// interpolated into the statement text. The insert commits before Add
// returns.
func (m *Manager) Add(table string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureOpen("add"); err != nil {
		return err
	}
	if len(row) == 0 {
		return &QueryError{Op: "add", Err: errors.New("empty row data")}
	}
	if err := validateIdent("add", table); err != nil {
		return err
	}
	for _, field := range row {
		if err := validateIdent("add", field.Column); err != nil {
			return err
		}
	}

	query, args := buildInsert(table, row)
	if _, err := m.db.Exec(query, args...); err != nil {
		return &ConstraintError{Table: table, Err: err}
	}
	return nil
}

// Delete removes the rows matching the equality criteria. Deleting zero rows
// is a success. Empty criteria are rejected to prevent an accidental
// full-table wipe; use DeleteAll for that.
func (m *Manager) Delete(table string, criteria Criteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureOpen("delete"); err != nil {
		return err
	}
	if len(criteria) == 0 {
		return &QueryError{Op: "delete", Err: errors.New("empty criteria: use DeleteAll to clear a table")}
	}
	return m.deleteWhere(table, criteria)
}

// DeleteAll removes every row from the table. This is the explicit
// destructive form of Delete with no criteria.
func (m *Manager) DeleteAll(table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureOpen("delete_all"); err != nil {
		return err
	}
	return m.deleteWhere(table, nil)
}

func (m *Manager) deleteWhere(table string, criteria Criteria) error {
	if err := validateIdent("delete", table); err != nil {
		return err
	}
	for _, field := range criteria {
		if err := validateIdent("delete", field.Column); err != nil {
			return err
		}
	}

	query, args := buildDelete(table, criteria)
	result, err := m.db.Exec(query, args...)
	if err != nil {
		return &QueryError{Op: "delete", Err: err}
	}

	if rows, err := result.RowsAffected(); err == nil {
		slog.Debug("Deleted rows", "table", table, "rows", rows)
	}
	return nil
}

// Select returns a forward-only cursor over the rows matching the criteria,
// optionally ordered. Nil criteria selects all rows; nil order leaves the
// order to the engine. The caller must close the returned cursor; while it is
// open it holds the manager's only connection.
func (m *Manager) Select(table string, criteria Criteria, order *Order) (*sql.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureOpen("select"); err != nil {
		return nil, err
	}
	if err := validateIdent("select", table); err != nil {
		return nil, err
	}
	for _, field := range criteria {
		if err := validateIdent("select", field.Column); err != nil {
			return nil, err
		}
	}
	if order != nil {
		if err := m.validateOrder(table, order); err != nil {
			return nil, err
		}
	}

	query, args := buildSelect(table, criteria, order)
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, &QueryError{Op: "select", Err: err}
	}
	return rows, nil
}

// validateOrder checks the direction against the two known values and the
// column against the table's declared columns.
func (m *Manager) validateOrder(table string, order *Order) error {
	if order.Direction != Ascending && order.Direction != Descending {
		return &QueryError{Op: "select", Err: fmt.Errorf("invalid sort direction %q", order.Direction)}
	}
	if err := validateIdent("select", order.Column); err != nil {
		return err
	}

	cols, err := m.tableColumns(table)
	if err != nil {
		return err
	}
	if !slices.Contains(cols, order.Column) {
		return &QueryError{Op: "select", Err: fmt.Errorf("unknown sort column %q on table %s", order.Column, table)}
	}
	return nil
}

// tableColumns returns the declared column names of a table. The table name
// must already be validated.
func (m *Manager) tableColumns(table string) ([]string, error) {
	rows, err := m.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, &QueryError{Op: "select", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, &QueryError{Op: "select", Err: err}
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "select", Err: err}
	}
	return cols, nil
}

// Close releases the underlying connection. Calling Close more than once is
// safe; subsequent calls are no-ops.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.db == nil {
		return nil
	}
	if err := m.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	slog.Debug("Closed database", "path", m.path)
	return nil
}

func (m *Manager) ensureOpen(op string) error {
	if m.closed {
		return &UseAfterCloseError{Op: op}
	}
	return nil
}
