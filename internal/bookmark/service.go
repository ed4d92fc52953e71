package bookmark

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hleutermann/barky/internal/database"
)

// ErrNotFound is returned when a bookmark id does not exist.
var ErrNotFound = errors.New("bookmark not found")

// Service composes the generic database manager primitives into
// bookmark-specific operations.
type Service struct {
	mgr *database.Manager
}

// NewService creates a Service on top of an open database manager. The
// manager stays owned by the caller.
func NewService(mgr *database.Manager) *Service {
	return &Service{mgr: mgr}
}

// Init creates the bookmarks table if it does not exist yet.
func (s *Service) Init() error {
	exists, err := s.mgr.TableExists(TableName)
	if err != nil {
		return fmt.Errorf("failed to check bookmarks table: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.mgr.CreateTable(TableName, TableSchema); err != nil {
		return fmt.Errorf("failed to create bookmarks table: %w", err)
	}
	slog.Debug("Initialized bookmarks table")
	return nil
}

// Add stores a new bookmark. A zero DateAdded is filled with the current
// time; empty notes are stored as NULL.
func (s *Service) Add(b Bookmark) error {
	added := b.DateAdded
	if added.IsZero() {
		added = time.Now().UTC()
	}

	var notes any
	if b.Notes != "" {
		notes = b.Notes
	}

	row := database.Row{
		{Column: "title", Value: b.Title},
		{Column: "url", Value: b.URL},
		{Column: "notes", Value: notes},
		{Column: "date_added", Value: added.Format(time.RFC3339)},
	}
	if err := s.mgr.Add(TableName, row); err != nil {
		return fmt.Errorf("failed to add bookmark %q: %w", b.Title, err)
	}

	slog.Info("Added bookmark", "title", b.Title, "url", b.URL)
	return nil
}

// Delete removes the bookmark with the given id. Missing ids fail with
// ErrNotFound so the CLI can tell the user instead of silently succeeding.
func (s *Service) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	criteria := database.Criteria{{Column: "id", Value: id}}
	if err := s.mgr.Delete(TableName, criteria); err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, err)
	}

	slog.Info("Deleted bookmark", "id", id)
	return nil
}

// Get returns the bookmark with the given id, or ErrNotFound.
func (s *Service) Get(id int64) (*Bookmark, error) {
	criteria := database.Criteria{{Column: "id", Value: id}}
	rows, err := s.mgr.Select(TableName, criteria, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to look up bookmark %d: %w", id, err)
	}

	bookmarks, err := scanBookmarks(rows)
	if err != nil {
		return nil, err
	}
	if len(bookmarks) == 0 {
		return nil, fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	return &bookmarks[0], nil
}

// List returns all bookmarks ordered by the sort key.
func (s *Service) List(key SortKey, descending bool) ([]Bookmark, error) {
	direction := database.Ascending
	if descending {
		direction = database.Descending
	}

	rows, err := s.mgr.Select(TableName, nil, database.OrderBy(key.column(), direction))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return scanBookmarks(rows)
}

// FindByTitle returns the bookmarks whose title matches exactly.
func (s *Service) FindByTitle(title string) ([]Bookmark, error) {
	criteria := database.Criteria{{Column: "title", Value: title}}
	rows, err := s.mgr.Select(TableName, criteria, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookmarks titled %q: %w", title, err)
	}
	return scanBookmarks(rows)
}

// scanBookmarks drains and closes the cursor. The select reads columns in
// TableSchema order.
func scanBookmarks(rows *sql.Rows) ([]Bookmark, error) {
	defer func() { _ = rows.Close() }()

	var bookmarks []Bookmark
	for rows.Next() {
		var (
			b         Bookmark
			notes     sql.NullString
			dateAdded string
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.URL, &notes, &dateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		b.Notes = notes.String

		parsed, err := time.Parse(time.RFC3339, dateAdded)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date_added %q: %w", dateAdded, err)
		}
		b.DateAdded = parsed

		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmark rows: %w", err)
	}
	return bookmarks, nil
}
