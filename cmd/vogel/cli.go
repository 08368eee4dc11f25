package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Scraper *crawl.Scraper

	// Species is nil unless a database is configured.
	Species vogel.SpeciesService

	ListPath string
	DataDir  string
}

// dataPath resolves name against the data directory unless it is absolute.
func (d *Dependencies) dataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.DataDir, name)
}

// Globals are the flags shared by all commands.
type Globals struct {
	BaseURL   string        `name:"base-url" env:"VOGEL_BASE_URL" default:"https://www.nabu.de" help:"Site root the listing paths are resolved against"`
	ListPath  string        `name:"list-path" default:"/tiere-und-pflanzen/voegel/portraets/" help:"Path of the species listing page"`
	DataDir   string        `name:"data-dir" env:"VOGEL_DATA_DIR" default:"." help:"Directory for listing, pages and records"`
	DB        string        `name:"db" env:"VOGEL_DB" help:"SQLite database that parsed records are also written to"`
	Timeout   time.Duration `default:"10s" help:"Timeout for a single page fetch"`
	Rate      float64       `default:"1" help:"Requests per second and host (0 disables limiting)"`
	UserAgent string        `name:"user-agent" env:"VOGEL_USER_AGENT" help:"User-Agent header for HTTP fetches"`
	Render    bool          `help:"Render pages in headless Chrome instead of plain HTTP"`
	Verbose   bool          `short:"v" help:"Enable debug logging"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	List     ListCmd     `cmd:"" help:"Discover species on the listing page and save the listing"`
	Download DownloadCmd `cmd:"" help:"Download the detail page of every listed species"`
	Parse    ParseCmd    `cmd:"" help:"Extract records from downloaded pages"`
	Scrape   ScrapeCmd   `cmd:"" help:"List, download and parse in one run"`
	Show     ShowCmd     `cmd:"" help:"Print a stored record as JSON"`
	Species  SpeciesCmd  `cmd:"" help:"List stored records"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a stored record"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Out string `short:"o" default:"species_urls.json" help:"Listing file, relative to the data directory"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	Listing string `short:"l" default:"species_urls.json" help:"Listing file, relative to the data directory"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct{}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Name  string `arg:"" help:"Species name"`
	Field string `short:"f" help:"Print only this field, e.g. endangerment"`
}

// SpeciesCmd is the "species" subcommand.
type SpeciesCmd struct {
	Name         string `help:"Only names containing this text"`
	Endangerment string `help:"Only records with this endangerment status"`
	Limit        int    `help:"Maximum number of records"`
	Offset       int    `help:"Number of records to skip"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Species name"`
	Force bool   `help:"Confirm deletion"`
}
