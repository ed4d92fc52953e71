package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DatabaseFile is the path to the SQLite bookmarks database
	DatabaseFile string
	// ExportDir is the directory markdown notes are exported to
	ExportDir string
	// ArchiveDir is the directory page snapshots are archived to
	ArchiveDir string
	// GithubToken is the optional token used for GitHub API requests
	GithubToken string
	// GithubUsername is the default GitHub user for star imports
	GithubUsername string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("dbfile", "./bookmarks.db")
	viper.SetDefault("export.outputdir", "./notes/")
	viper.SetDefault("archive.outputdir", "./archive/")

	// Get values from viper
	DatabaseFile = viper.GetString("dbfile")
	ExportDir = viper.GetString("export.outputdir")
	ArchiveDir = viper.GetString("archive.outputdir")
	GithubToken = viper.GetString("github.token")
	GithubUsername = viper.GetString("github.username")
}

// SetDatabaseFile sets the bookmarks database path
func SetDatabaseFile(path string) {
	DatabaseFile = path
}
