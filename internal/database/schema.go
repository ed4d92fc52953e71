package database

import (
	"fmt"
	"regexp"
	"strings"
)

// Column defines a single column of a table schema. Constraints is passed
// through to the engine verbatim (e.g. "integer primary key autoincrement",
// "text not null").
type Column struct {
	Name        string
	Constraints string
}

// Schema is an ordered list of column definitions. Slice order determines the
// column order of the generated CREATE TABLE statement.
type Schema []Column

// Field pairs a column name with a value. Used both for insert payloads and
// for equality-based filter criteria.
type Field struct {
	Column string
	Value  any
}

// Row is an ordered insert payload.
type Row []Field

// Criteria is an ordered equality filter. Entries are ANDed together in
// slice order. A nil Criteria matches all rows.
type Criteria []Field

// Direction is a sort direction for Select.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Order describes the ordering of a Select. The column is checked against the
// table's declared columns and the direction against the two known values
// before either is spliced into SQL, so no caller-controlled text reaches the
// statement unvalidated.
type Order struct {
	Column    string
	Direction Direction
}

// OrderBy is a convenience constructor for an Order.
func OrderBy(column string, direction Direction) *Order {
	return &Order{Column: column, Direction: direction}
}

// Identifiers are interpolated into SQL text and therefore restricted to a
// safe subset. Values never are; they are always bound as parameters.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateIdent(op, name string) error {
	if !identPattern.MatchString(name) {
		return &QueryError{Op: op, Err: fmt.Errorf("invalid identifier %q", name)}
	}
	return nil
}

// buildCreateTable joins "<name> <constraints>" pairs in schema order.
func buildCreateTable(table string, schema Schema) string {
	cols := make([]string, 0, len(schema))
	for _, col := range schema {
		cols = append(cols, col.Name+" "+col.Constraints)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))
}

// buildInsert produces a fully parameterized INSERT statement and its
// bind arguments in row order.
func buildInsert(table string, row Row) (string, []any) {
	cols := make([]string, 0, len(row))
	placeholders := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	for _, field := range row {
		cols = append(cols, field.Column)
		placeholders = append(placeholders, "?")
		args = append(args, field.Value)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args
}

// whereClause renders an equality filter ANDed in criteria order. Returns an
// empty clause for nil criteria.
func whereClause(criteria Criteria) (string, []any) {
	if len(criteria) == 0 {
		return "", nil
	}
	terms := make([]string, 0, len(criteria))
	args := make([]any, 0, len(criteria))
	for _, field := range criteria {
		terms = append(terms, field.Column+" = ?")
		args = append(args, field.Value)
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

func buildDelete(table string, criteria Criteria) (string, []any) {
	clause, args := whereClause(criteria)
	return "DELETE FROM " + table + clause, args
}

func buildSelect(table string, criteria Criteria, order *Order) (string, []any) {
	clause, args := whereClause(criteria)
	query := "SELECT * FROM " + table + clause
	if order != nil {
		query += fmt.Sprintf(" ORDER BY %s %s", order.Column, order.Direction)
	}
	return query, args
}
