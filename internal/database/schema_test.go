package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCreateTablePreservesColumnOrder(t *testing.T) {
	schema := Schema{
		{Name: "id", Constraints: "integer primary key autoincrement"},
		{Name: "title", Constraints: "text not null"},
		{Name: "notes", Constraints: "text"},
	}
	stmt := buildCreateTable("bookmarks", schema)
	assert.Equal(t,
		"CREATE TABLE bookmarks (id integer primary key autoincrement, title text not null, notes text)",
		stmt)
}

func TestBuildInsert(t *testing.T) {
	row := Row{
		{Column: "title", Value: "a"},
		{Column: "url", Value: "http://example.com"},
	}
	query, args := buildInsert("bookmarks", row)
	assert.Equal(t, "INSERT INTO bookmarks (title, url) VALUES (?, ?)", query)
	assert.Equal(t, []any{"a", "http://example.com"}, args)
}

func TestBuildDelete(t *testing.T) {
	query, args := buildDelete("bookmarks", Criteria{
		{Column: "title", Value: "a"},
		{Column: "url", Value: "http://example.com"},
	})
	assert.Equal(t, "DELETE FROM bookmarks WHERE title = ? AND url = ?", query)
	assert.Equal(t, []any{"a", "http://example.com"}, args)

	query, args = buildDelete("bookmarks", nil)
	assert.Equal(t, "DELETE FROM bookmarks", query)
	assert.Empty(t, args)
}

func TestBuildSelect(t *testing.T) {
	query, args := buildSelect("bookmarks", nil, nil)
	assert.Equal(t, "SELECT * FROM bookmarks", query)
	assert.Empty(t, args)

	query, args = buildSelect("bookmarks", Criteria{{Column: "id", Value: 7}}, OrderBy("title", Ascending))
	assert.Equal(t, "SELECT * FROM bookmarks WHERE id = ? ORDER BY title ASC", query)
	assert.Equal(t, []any{7}, args)
}

func TestValidateIdent(t *testing.T) {
	testCases := []struct {
		name  string
		ident string
		valid bool
	}{
		{name: "plain", ident: "bookmarks", valid: true},
		{name: "underscore prefix", ident: "_meta", valid: true},
		{name: "digits", ident: "table2", valid: true},
		{name: "empty", ident: "", valid: false},
		{name: "leading digit", ident: "2fast", valid: false},
		{name: "spaces", ident: "drop table", valid: false},
		{name: "quote", ident: `x"y`, valid: false},
		{name: "semicolon", ident: "x;y", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateIdent("test", tc.ident)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, IsQueryError(err))
			}
		})
	}
}
