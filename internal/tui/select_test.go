package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hleutermann/barky/internal/bookmark"
)

func testBookmarks() []bookmark.Bookmark {
	added := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []bookmark.Bookmark{
		{ID: 1, Title: "Go Blog", URL: "https://go.dev/blog", DateAdded: added},
		{ID: 2, Title: "Hacker News", URL: "https://news.ycombinator.com", Notes: "morning coffee", DateAdded: added},
	}
}

func testItems() []bookmarkItem {
	marks := testBookmarks()
	items := make([]bookmarkItem, len(marks))
	for i, b := range marks {
		items[i] = bookmarkItem{Bookmark: b}
	}
	return items
}

func TestEnterSelectsCurrentBookmark(t *testing.T) {
	m := newModel("Pick a bookmark", testItems())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result := updated.(*model).result

	assert.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, int64(1), result.Selection.ID)
}

func TestNavigationMovesSelection(t *testing.T) {
	m := newModel("Pick a bookmark", testItems())

	down, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated, _ := down.(*model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	result := updated.(*model).result

	assert.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, int64(2), result.Selection.ID)
}

func TestQuitKeysCancel(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := newModel("Pick a bookmark", testItems())

			var msg tea.KeyMsg
			switch key {
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			default:
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			}

			updated, _ := m.Update(msg)
			assert.Equal(t, ActionCancelled, updated.(*model).result.Action)
			assert.Nil(t, updated.(*model).result.Selection)
		})
	}
}

func TestSelectBookmarkEmptyListCancels(t *testing.T) {
	result, err := SelectBookmark("Pick a bookmark", nil)
	require.NoError(t, err)
	assert.Equal(t, ActionCancelled, result.Action)
}

func TestSelectBookmarkUsesProgramResult(t *testing.T) {
	orig := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		picker := m.(*model)
		updated, _ := picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return updated, nil
	}
	t.Cleanup(func() { runProgram = orig })

	result, err := SelectBookmark("Pick a bookmark", testBookmarks())
	require.NoError(t, err)
	assert.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, "Go Blog", result.Selection.Title)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long te...", truncate("long text that overflows", 10))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 72, clamp(72, 100, 40))
	assert.Equal(t, 60, clamp(72, 60, 40))
	assert.Equal(t, 40, clamp(72, 10, 40))
}
