// Package export writes bookmarks out as markdown notes with YAML
// frontmatter, one file per bookmark.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hleutermann/barky/internal/bookmark"
)

// frontmatter is the YAML header of an exported note. Field order here is
// the serialization order.
type frontmatter struct {
	Title     string   `yaml:"title"`
	URL       string   `yaml:"url"`
	DateAdded string   `yaml:"date_added"`
	Tags      []string `yaml:"tags,flow"`
}

// NoteContent renders a bookmark as a markdown document with YAML
// frontmatter.
func NoteContent(b bookmark.Bookmark) ([]byte, error) {
	fm := frontmatter{
		Title:     b.Title,
		URL:       b.URL,
		DateAdded: b.DateAdded.UTC().Format(time.RFC3339),
		Tags:      []string{"bookmark"},
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize frontmatter: %w", err)
	}

	buf.WriteString("---\n\n")
	buf.WriteString("# " + b.Title + "\n\n")
	if b.Notes != "" {
		buf.WriteString(b.Notes + "\n\n")
	}
	buf.WriteString(fmt.Sprintf("[%s](%s)\n", b.Title, b.URL))

	return buf.Bytes(), nil
}

// NoteFilename returns the markdown filename for a bookmark, with
// filesystem-hostile characters replaced.
func NoteFilename(b bookmark.Bookmark) string {
	name := b.Title
	if name == "" {
		name = fmt.Sprintf("bookmark-%d", b.ID)
	}
	name = strings.ReplaceAll(name, ":", " -")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return name + ".md"
}

// WriteNotes exports every bookmark to its own note under dir. Existing
// files are skipped unless overwrite is set. Returns the number of files
// written.
func WriteNotes(bookmarks []bookmark.Bookmark, dir string, overwrite bool) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	written := 0
	for _, b := range bookmarks {
		path := filepath.Join(dir, NoteFilename(b))

		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				slog.Debug("Note already exists, skipping", "path", path)
				continue
			}
		}

		content, err := NoteContent(b)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return written, fmt.Errorf("failed to write note %s: %w", path, err)
		}

		slog.Debug("Exported note", "path", path)
		written++
	}

	slog.Info("Exported bookmarks", "dir", dir, "written", written, "total", len(bookmarks))
	return written, nil
}
