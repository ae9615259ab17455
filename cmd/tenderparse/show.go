package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hweisong/tenderparse"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	record, err := deps.Records.FindRecordByInfoID(deps.Ctx, c.InfoID)
	if err != nil {
		if tenderparse.ErrorCode(err) == tenderparse.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: record %q not found. Use 'tenderparse list' to see stored records.\n", c.InfoID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tenderparse.ErrorMessage(err))
		}
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}

	printRecord(deps.Stdout, record)
	return nil
}

// printRecord writes a human-readable summary of the record.
func printRecord(w io.Writer, r *tenderparse.ParsedRecord) {
	fmt.Fprintf(w, "Info ID:       %s\n", r.InfoID)
	fmt.Fprintf(w, "Status:        %s\n", r.Status)
	if r.ErrorMessage != "" {
		fmt.Fprintf(w, "Reason:        %s\n", r.ErrorMessage)
	}
	printField(w, "Project no.", r.ProjectNo)
	printField(w, "Project name", r.ProjectName)
	printField(w, "Method", r.TenderMethod)
	printField(w, "Area", r.Area)
	if r.BudgetAmount != nil {
		fmt.Fprintf(w, "Budget (yuan): %s\n", r.BudgetAmount.String())
	}
	printTime(w, "Published", r.PublishTime)
	printTime(w, "Docs from", r.DocAcquisitionStart)
	printTime(w, "Docs until", r.DocAcquisitionEnd)
	printTime(w, "Bid deadline", r.BiddingDeadline)
	printTime(w, "Opening", r.OpeningTime)
	printField(w, "Venue", r.OpeningVenue)
	printField(w, "Purchaser", r.PurchaserName)
	printField(w, "Agent", r.AgentName)
	printField(w, "Contact", r.ProjectContactName)
	printField(w, "Contact phone", r.ProjectContactPhone)
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%-14s %s\n", label+":", value)
}

func printTime(w io.Writer, label string, t *time.Time) {
	if t == nil {
		return
	}
	fmt.Fprintf(w, "%-14s %s\n", label+":", t.Format("2006-01-02 15:04:05"))
}
