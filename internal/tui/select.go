// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hleutermann/barky/internal/bookmark"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected a bookmark.
	ActionSelected
	// ActionCancelled indicates the user dismissed the picker.
	ActionCancelled
)

// SelectionResult holds the result of a picker session.
type SelectionResult struct {
	Action    SelectionAction
	Selection *bookmark.Bookmark
}

type bookmarkItem struct {
	bookmark.Bookmark
}

func (i bookmarkItem) FilterValue() string {
	return i.Bookmark.Title
}

type itemStyles struct {
	normal     lipgloss.Style
	selected   lipgloss.Style
	titleStyle lipgloss.Style
	urlStyle   lipgloss.Style
	metaStyle  lipgloss.Style
	notesStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		urlStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
		metaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		notesStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
	}
}

type bookmarkDelegate struct {
	styles itemStyles
}

func newDelegate() bookmarkDelegate {
	return bookmarkDelegate{styles: newItemStyles()}
}

func (d bookmarkDelegate) Height() int                         { return 4 }
func (d bookmarkDelegate) Spacing() int                        { return 1 }
func (d bookmarkDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookmarkDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	b, ok := item.(bookmarkItem)
	if !ok {
		return
	}

	titleLine := d.styles.titleStyle.Render(fmt.Sprintf("[%d] %s", b.ID, b.Title))
	urlLine := d.styles.urlStyle.Render(b.URL)
	metaLine := d.styles.metaStyle.Render("added " + b.DateAdded.Format(time.DateOnly))

	lines := []string{titleLine, urlLine, metaLine}
	if b.Notes != "" {
		lines = append(lines, d.styles.notesStyle.Render(truncate(b.Notes, m.Width()-4)))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	list   list.Model
	prompt string
	result SelectionResult
}

func newModel(prompt string, items []bookmarkItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:   l,
		prompt: prompt,
		result: SelectionResult{
			Action: ActionNone,
		},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(bookmarkItem); ok {
				result := selected.Bookmark
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: &result,
				}
				return m, tea.Quit
			}
		case "ctrl+c", "q", "esc":
			m.result = SelectionResult{Action: ActionCancelled}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(m.prompt)
	listView := m.list.View()
	help := helpStyle.Render("Up/Down navigate | Enter select | q cancel")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// SelectBookmark shows an interactive picker over the given bookmarks and
// returns the user's choice. An empty slice cancels immediately.
func SelectBookmark(prompt string, bookmarks []bookmark.Bookmark) (SelectionResult, error) {
	if len(bookmarks) == 0 {
		return SelectionResult{Action: ActionCancelled}, nil
	}

	items := make([]bookmarkItem, len(bookmarks))
	for i, b := range bookmarks {
		items[i] = bookmarkItem{Bookmark: b}
	}

	m := newModel(prompt, items)
	final, err := runProgram(m)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("failed to run picker: %w", err)
	}

	result, ok := final.(*model)
	if !ok {
		return SelectionResult{}, fmt.Errorf("unexpected picker model type %T", final)
	}
	return result.result, nil
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func clamp(preferred, available, minimum int) int {
	if available < minimum {
		return minimum
	}
	if available < preferred {
		return available
	}
	return preferred
}
