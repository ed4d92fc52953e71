package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/hleutermann/barky/internal/archive"
	"github.com/hleutermann/barky/internal/bookmark"
	"github.com/hleutermann/barky/internal/config"
	"github.com/hleutermann/barky/internal/database"
	"github.com/hleutermann/barky/internal/export"
	"github.com/hleutermann/barky/internal/github"
	"github.com/hleutermann/barky/internal/tui"
)

// CLI represents the complete command structure for the barky application
type CLI struct {
	// Global flags
	DBFile  string `help:"Path to the bookmarks SQLite database (defaults to dbfile in config)"`
	Verbose bool   `help:"Enable debug logging"`

	Add     AddCmd     `cmd:"" help:"Add a bookmark"`
	List    ListCmd    `cmd:"" help:"List bookmarks"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a bookmark"`
	Import  ImportCmd  `cmd:"" help:"Import bookmarks from external sources"`
	Export  ExportCmd  `cmd:"" help:"Export bookmarks as markdown notes"`
	Archive ArchiveCmd `cmd:"" help:"Archive a local snapshot of a bookmarked page"`
}

// AddCmd adds a single bookmark.
type AddCmd struct {
	URL        string `arg:"" help:"URL to bookmark"`
	Title      string `short:"t" help:"Bookmark title (defaults to the page title with --fetch-title, else the URL)"`
	Notes      string `short:"n" help:"Free-form notes"`
	FetchTitle bool   `help:"Resolve a missing title by rendering the page in headless Chrome"`
}

// ListCmd prints all bookmarks.
type ListCmd struct {
	By   string `help:"Sort key" enum:"date,title" default:"date"`
	Desc bool   `help:"Sort in descending order"`
}

// DeleteCmd removes a bookmark by id or interactively.
type DeleteCmd struct {
	ID          int64 `arg:"" optional:"" help:"Bookmark id to delete"`
	Interactive bool  `short:"i" help:"Pick the bookmark to delete from a list"`
}

// ImportCmd groups the import subcommands.
type ImportCmd struct {
	GithubStars GithubStarsCmd `cmd:"" name:"github-stars" help:"Import a user's starred GitHub repositories"`
}

// GithubStarsCmd imports starred repositories as bookmarks.
type GithubStarsCmd struct {
	Username string `help:"GitHub username (defaults to github.username in config)"`
	Token    string `help:"GitHub API token (defaults to github.token in config or GITHUB_TOKEN)"`
}

// ExportCmd writes one markdown note per bookmark.
type ExportCmd struct {
	Output    string `short:"o" help:"Directory to write notes to (defaults to export.outputdir in config)"`
	Overwrite bool   `help:"Overwrite existing note files"`
}

// ArchiveCmd captures a snapshot of a bookmarked page.
type ArchiveCmd struct {
	ID      int64         `arg:"" help:"Bookmark id to archive"`
	Output  string        `short:"o" help:"Directory to write the snapshot to (defaults to archive.outputdir in config)"`
	Timeout time.Duration `help:"Page load timeout" default:"60s"`
}

// Execute runs the Kong-based CLI
func Execute() {
	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("barky"),
		kong.Description("A personal bookmark manager backed by a local SQLite database."),
		kong.UsageOnError(),
	)

	initLogging(cli.Verbose)
	initConfig()

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("github.token", "GITHUB_TOKEN"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.DBFile != "" {
		viper.Set("dbfile", cli.DBFile)
		config.SetDatabaseFile(cli.DBFile)
	}
}

// openService opens the database manager and wraps it in a bookmark service.
// The returned cleanup must run on every exit path.
func openService() (*bookmark.Service, func(), error) {
	mgr, err := database.Open(config.DatabaseFile)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := mgr.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}

	svc := bookmark.NewService(mgr)
	if err := svc.Init(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// Run methods for each command

func (a *AddCmd) Run() error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	title := a.Title
	if title == "" && a.FetchTitle {
		fetched, err := archive.PageTitle(context.Background(), a.URL, 0)
		if err != nil {
			slog.Warn("Failed to fetch page title", "url", a.URL, "error", err)
		} else {
			title = fetched
		}
	}
	if title == "" {
		title = a.URL
	}

	return svc.Add(bookmark.Bookmark{
		Title: title,
		URL:   a.URL,
		Notes: a.Notes,
	})
}

func (l *ListCmd) Run() error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	bookmarks, err := svc.List(bookmark.SortKey(l.By), l.Desc)
	if err != nil {
		return err
	}

	if len(bookmarks) == 0 {
		fmt.Println("No bookmarks yet.")
		return nil
	}
	for _, b := range bookmarks {
		fmt.Println(formatBookmark(b))
	}
	return nil
}

func formatBookmark(b bookmark.Bookmark) string {
	line := fmt.Sprintf("%4d  %s  %s\n      %s", b.ID, b.DateAdded.Format(time.DateOnly), b.Title, b.URL)
	if b.Notes != "" {
		line += "\n      " + b.Notes
	}
	return line
}

func (d *DeleteCmd) Run() error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	id := d.ID
	if d.Interactive {
		bookmarks, err := svc.List(bookmark.SortByDate, true)
		if err != nil {
			return err
		}

		result, err := tui.SelectBookmark("Select a bookmark to delete", bookmarks)
		if err != nil {
			return err
		}
		if result.Action != tui.ActionSelected {
			fmt.Println("Nothing deleted.")
			return nil
		}
		id = result.Selection.ID
	}

	if id == 0 {
		return fmt.Errorf("a bookmark id is required (or use --interactive)")
	}
	return svc.Delete(id)
}

func (g *GithubStarsCmd) Run() error {
	username := g.Username
	if username == "" {
		username = config.GithubUsername
	}
	if username == "" {
		return fmt.Errorf("github username is required (provide via --username flag or github.username in config)")
	}

	token := g.Token
	if token == "" {
		token = config.GithubToken
	}

	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	client := github.NewClient(token)
	repos, err := client.Starred(context.Background(), username)
	if err != nil {
		return err
	}

	imported := 0
	for _, repo := range repos {
		existing, err := svc.FindByTitle(repo.FullName)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			slog.Debug("Bookmark already imported, skipping", "repo", repo.FullName)
			continue
		}

		if err := svc.Add(bookmark.Bookmark{
			Title: repo.FullName,
			URL:   repo.HTMLURL,
			Notes: repo.Description,
		}); err != nil {
			return err
		}
		imported++
	}

	fmt.Printf("Imported %d of %d starred repositories.\n", imported, len(repos))
	return nil
}

func (e *ExportCmd) Run() error {
	outputDir := e.Output
	if outputDir == "" {
		outputDir = config.ExportDir
	}

	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	bookmarks, err := svc.List(bookmark.SortByDate, false)
	if err != nil {
		return err
	}

	written, err := export.WriteNotes(bookmarks, outputDir, e.Overwrite)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d notes to %s.\n", written, outputDir)
	return nil
}

func (a *ArchiveCmd) Run() error {
	outputDir := a.Output
	if outputDir == "" {
		outputDir = config.ArchiveDir
	}

	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	b, err := svc.Get(a.ID)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(export.NoteFilename(*b), ".md")
	result, err := archive.Snapshot(context.Background(), b.URL, base, archive.Options{
		OutputDir: outputDir,
		Timeout:   a.Timeout,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Archived %s:\n  %s\n  %s\n", b.URL, result.ScreenshotPath, result.PDFPath)
	return nil
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
