package main

import (
	"fmt"

	"github.com/hweisong/tenderparse"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := tenderparse.RecordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Status != "" {
		status := tenderparse.ParseStatus(c.Status)
		switch status {
		case tenderparse.StatusSuccess, tenderparse.StatusFailed, tenderparse.StatusSkippedNonStandard:
		default:
			fmt.Fprintf(deps.Stderr, "error: unknown status %q\n", c.Status)
			return tenderparse.Errorf(tenderparse.EINVALID, "unknown status %q", c.Status)
		}
		filter.Status = &status
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenderparse.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'tenderparse batch' to parse announcements.")
		return nil
	}

	for _, r := range records {
		name := r.ProjectName
		if name == "" {
			name = "(" + r.ErrorMessage + ")"
		}
		fmt.Fprintf(deps.Stdout, "%s  %-20s  %s\n", r.InfoID, r.Status, name)
	}

	return nil
}
