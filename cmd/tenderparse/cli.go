package main

import (
	"context"
	"io"
	"time"

	"github.com/hweisong/tenderparse"
	"github.com/hweisong/tenderparse/batch"
	"github.com/hweisong/tenderparse/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	DB      *sqlite.DB
	Config  tenderparse.Config
	Records tenderparse.RecordService
	Parser  tenderparse.Parser
	Fetcher tenderparse.PageFetcher
	Runner  *batch.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Parse ParseCmd `cmd:"" help:"Parse a single announcement page"`
	Batch BatchCmd `cmd:"" help:"Parse a list of announcements and store the records"`
	List  ListCmd  `cmd:"" help:"List stored records"`
	Show  ShowCmd  `cmd:"" help:"Show a stored record"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	InfoID string `arg:"" name:"info-id" help:"Announcement info ID"`
	URL    string `arg:"" optional:"" help:"Announcement page URL"`
	File   string `short:"f" help:"Read HTML from a local file instead of fetching"`
	Title  string `short:"t" help:"List-page title, used as a fallback project name"`
	DryRun bool   `help:"Parse without storing the record"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File        string        `arg:"" help:"Tab-separated items file: info ID, URL, optional title"`
	Concurrency int           `short:"c" default:"10" help:"Concurrent fetch limit"`
	Interval    time.Duration `short:"i" default:"200ms" help:"Minimum interval between requests"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Status string `short:"s" help:"Filter by parse status (success, failed, skipped_non_standard)"`
	Limit  int    `short:"n" default:"20" help:"Maximum records to list"`
	Offset int    `help:"Records to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	InfoID string `arg:"" name:"info-id" help:"Announcement info ID"`
	JSON   bool   `help:"Print the record as JSON"`
}
