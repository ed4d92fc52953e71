// Package bookmark holds the bookmark domain model and its storage service.
package bookmark

import (
	"time"

	"github.com/hleutermann/barky/internal/database"
)

// TableName is the bookmarks table in the database file.
const TableName = "bookmarks"

// TableSchema is the canonical bookmarks schema. Column order here determines
// both the generated DDL and the scan order of selects.
var TableSchema = database.Schema{
	{Name: "id", Constraints: "integer primary key autoincrement"},
	{Name: "title", Constraints: "text not null"},
	{Name: "url", Constraints: "text not null"},
	{Name: "notes", Constraints: "text"},
	{Name: "date_added", Constraints: "text not null"},
}

// Bookmark is a single saved bookmark.
type Bookmark struct {
	ID        int64
	Title     string
	URL       string
	Notes     string
	DateAdded time.Time
}

// SortKey selects the ordering of List output.
type SortKey string

const (
	// SortByDate orders by the time the bookmark was added.
	SortByDate SortKey = "date"
	// SortByTitle orders lexicographically by title.
	SortByTitle SortKey = "title"
)

// column returns the table column backing the sort key.
func (k SortKey) column() string {
	if k == SortByTitle {
		return "title"
	}
	return "date_added"
}
