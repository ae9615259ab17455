package main

import (
	"fmt"
	"os"

	"github.com/hweisong/tenderparse"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	var html string
	switch {
	case c.File != "":
		data, err := os.ReadFile(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: cannot read %q: %v\n", c.File, err)
			return err
		}
		html = string(data)
	case c.URL != "":
		fetched, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tenderparse.ErrorMessage(err))
			return err
		}
		html = fetched
	default:
		fmt.Fprintln(deps.Stderr, "error: provide a URL or --file")
		return tenderparse.Errorf(tenderparse.EINVALID, "parse requires a URL or --file")
	}

	record := deps.Parser.Parse(c.InfoID, c.URL, html, c.Title)

	if !c.DryRun {
		if _, err := deps.Records.UpsertRecord(deps.Ctx, record); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tenderparse.ErrorMessage(err))
			return err
		}
	}

	printRecord(deps.Stdout, record)
	return nil
}
