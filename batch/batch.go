// Package batch provides batch parsing orchestration. It coordinates
// fetching announcement pages, change detection, parsing and storage.
package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hweisong/tenderparse"
	"github.com/hweisong/tenderparse/bloom"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Item identifies one announcement to process. Title is the list-page
// title, passed to the parser as the project name hint.
type Item struct {
	InfoID string
	URL    string
	Title  string
}

// Runner orchestrates a batch parse over a set of announcements.
type Runner struct {
	Fetcher tenderparse.PageFetcher
	Parser  tenderparse.Parser
	Records tenderparse.RecordService

	// Seen holds info IDs already in storage. When set, a hit triggers a
	// content-hash comparison and unchanged pages are not reparsed.
	Seen *bloom.Filter

	// Limiter paces requests against the portal. Optional.
	Limiter *rate.Limiter

	Concurrency int
	RetryDelays []time.Duration
}

// NewLimiter builds a limiter that allows one request per interval.
func NewLimiter(interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Result holds the outcome of a batch run.
type Result struct {
	Parsed    int // success records stored
	Skipped   int // non-standard records stored
	Failed    int // fetch errors, parse failures and storage errors
	Unchanged int // pages whose content hash matched the stored record
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	InfoID    string
	Status    tenderparse.ParseStatus
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// itemResult holds the outcome of processing a single announcement.
type itemResult struct {
	position  int
	item      Item
	record    *tenderparse.ParsedRecord
	unchanged bool
	err       error
}

// SeedFilter loads the info IDs already in storage into the Seen filter,
// paging through the record store.
func (r *Runner) SeedFilter(ctx context.Context) error {
	if r.Seen == nil {
		return nil
	}

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		records, err := r.Records.FindRecords(ctx, tenderparse.RecordFilter{
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("seeding dedup filter: %w", err)
		}
		for _, rec := range records {
			r.Seen.Add(rec.InfoID)
		}
		if len(records) < pageSize {
			return nil
		}
	}
}

// Run processes the announcements and stores one record per item. The
// progress callback, if provided, receives events as the run proceeds.
//
// Run fails fast only on context cancellation; individual item failures are
// recorded and counted, never fatal to the batch.
func (r *Runner) Run(ctx context.Context, items []Item, progress ProgressFunc) (*Result, error) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	resultCh := make(chan itemResult, len(items))

	var completed atomic.Int64
	total := len(items)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, item := range items {
			i, item := i, item
			g.Go(func() error {
				resultCh <- r.processItem(gctx, i, item)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect in arrival order; records are persisted afterwards so the
	// single SQLite writer is never contended by the workers.
	results := make([]itemResult, len(items))
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			InfoID:    result.item.InfoID,
		}
		if result.err != nil {
			event.Type = ProgressFailed
			event.Error = result.err
		} else {
			event.Type = ProgressCompleted
			if result.record != nil {
				event.Status = result.record.Status
			}
		}
		progress(event)
	}

	var res Result
	for _, result := range results {
		switch {
		case result.err != nil:
			res.Failed++
			continue
		case result.unchanged:
			res.Unchanged++
			continue
		}

		if _, err := r.Records.UpsertRecord(ctx, result.record); err != nil {
			res.Failed++
			continue
		}
		if r.Seen != nil {
			r.Seen.Add(result.item.InfoID)
		}

		switch result.record.Status {
		case tenderparse.StatusSuccess:
			res.Parsed++
		case tenderparse.StatusSkippedNonStandard:
			res.Skipped++
		default:
			res.Failed++
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return &res, ctx.Err()
}

// processItem fetches and parses a single announcement.
func (r *Runner) processItem(ctx context.Context, position int, item Item) itemResult {
	result := itemResult{
		position: position,
		item:     item,
	}

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			result.err = err
			return result
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := fetchWithRetryDelays(ctx, item.URL, r.Fetcher.Fetch, delays)
	if err != nil {
		result.err = err
		return result
	}

	hash := hashContent(html)

	// A filter hit means this announcement was probably parsed before; on
	// an unchanged page the stored record stands.
	if r.Seen != nil && r.Seen.Test(item.InfoID) {
		existing, err := r.Records.FindRecordByInfoID(ctx, item.InfoID)
		if err == nil && existing.ContentHash == hash {
			result.unchanged = true
			return result
		}
	}

	record := r.Parser.Parse(item.InfoID, item.URL, html, item.Title)
	record.ContentHash = hash
	result.record = record

	return result
}

// hashContent computes a hash of the raw page content using xxhash.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
