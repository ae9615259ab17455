package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hweisong/tenderparse"
	"github.com/hweisong/tenderparse/batch"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	items, err := readItems(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(deps.Stdout, "No items to parse.")
		return nil
	}

	progress := func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Parsing %d announcements\n", event.Total)
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.InfoID, event.Error)
		case batch.ProgressFinished:
			// Summary printed after the run completes
		}
	}

	result, err := deps.Runner.Run(deps.Ctx, items, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Parsed %d, skipped %d, unchanged %d, failed %d\n",
		result.Parsed, result.Skipped, result.Unchanged, result.Failed)
	return nil
}

// readItems reads tab-separated items: info ID, URL, optional title. Blank
// lines and lines starting with # are ignored.
func readItems(path string) ([]batch.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", path, err)
	}
	defer f.Close()

	var items []batch.Item
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, tenderparse.Errorf(tenderparse.EINVALID, "line %d: expected info ID and URL separated by a tab", line)
		}
		item := batch.Item{InfoID: strings.TrimSpace(fields[0]), URL: strings.TrimSpace(fields[1])}
		if len(fields) > 2 {
			item.Title = strings.TrimSpace(fields[2])
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return items, nil
}
