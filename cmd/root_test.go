package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hleutermann/barky/internal/bookmark"
	"github.com/hleutermann/barky/internal/config"
)

// useTempDB points the global config at a fresh database for one test.
func useTempDB(t *testing.T) {
	t.Helper()
	orig := config.DatabaseFile
	config.SetDatabaseFile(filepath.Join(t.TempDir(), "bookmarks.db"))
	t.Cleanup(func() { config.SetDatabaseFile(orig) })
}

func TestAddCmdStoresBookmark(t *testing.T) {
	useTempDB(t)

	add := AddCmd{URL: "https://go.dev", Title: "The Go Programming Language", Notes: "language home page"}
	require.NoError(t, add.Run())

	svc, cleanup, err := openService()
	require.NoError(t, err)
	defer cleanup()

	bookmarks, err := svc.List(bookmark.SortByDate, false)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "The Go Programming Language", bookmarks[0].Title)
	assert.Equal(t, "https://go.dev", bookmarks[0].URL)
	assert.Equal(t, "language home page", bookmarks[0].Notes)
}

func TestAddCmdDefaultsTitleToURL(t *testing.T) {
	useTempDB(t)

	add := AddCmd{URL: "https://example.com/untitled"}
	require.NoError(t, add.Run())

	svc, cleanup, err := openService()
	require.NoError(t, err)
	defer cleanup()

	bookmarks, err := svc.List(bookmark.SortByDate, false)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "https://example.com/untitled", bookmarks[0].Title)
}

func TestDeleteCmdRemovesBookmark(t *testing.T) {
	useTempDB(t)

	add := AddCmd{URL: "https://example.com", Title: "Example"}
	require.NoError(t, add.Run())

	svc, cleanup, err := openService()
	require.NoError(t, err)
	bookmarks, err := svc.List(bookmark.SortByDate, false)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	cleanup()

	del := DeleteCmd{ID: bookmarks[0].ID}
	require.NoError(t, del.Run())

	svc, cleanup, err = openService()
	require.NoError(t, err)
	defer cleanup()
	remaining, err := svc.List(bookmark.SortByDate, false)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteCmdRequiresID(t *testing.T) {
	useTempDB(t)

	del := DeleteCmd{}
	err := del.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bookmark id is required")
}

func TestListCmdRunsOnEmptyDatabase(t *testing.T) {
	useTempDB(t)

	list := ListCmd{By: "date"}
	assert.NoError(t, list.Run())
}

func TestExportCmdWritesNotes(t *testing.T) {
	useTempDB(t)

	add := AddCmd{URL: "https://go.dev", Title: "Go"}
	require.NoError(t, add.Run())

	outputDir := filepath.Join(t.TempDir(), "notes")
	export := ExportCmd{Output: outputDir}
	require.NoError(t, export.Run())

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Go.md", entries[0].Name())
}

func TestFormatBookmark(t *testing.T) {
	b := bookmark.Bookmark{
		ID:        7,
		Title:     "Go",
		URL:       "https://go.dev",
		DateAdded: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	line := formatBookmark(b)
	assert.Contains(t, line, "7")
	assert.Contains(t, line, "2024-03-15")
	assert.Contains(t, line, "Go")
	assert.Contains(t, line, "https://go.dev")
	assert.NotContains(t, line, "\n      \n")

	b.Notes = "the language site"
	assert.Contains(t, formatBookmark(b), "the language site")
}

func TestUpdateGlobalConfig(t *testing.T) {
	orig := config.DatabaseFile
	t.Cleanup(func() { config.SetDatabaseFile(orig) })

	cli := CLI{DBFile: "/tmp/custom.db"}
	updateGlobalConfig(&cli)
	assert.Equal(t, "/tmp/custom.db", config.DatabaseFile)

	cli = CLI{}
	updateGlobalConfig(&cli)
	assert.Equal(t, "/tmp/custom.db", config.DatabaseFile)
}
