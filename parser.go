package tenderparse

import "context"

// Parser converts one announcement page into a ParsedRecord.
//
// Parse is a pure function of its inputs: it performs no I/O, and it never
// returns an error to the caller. Failures of any kind are resolved into the
// record's Status and ErrorMessage. The returned record always carries at
// least InfoID, SourceURL and ParseTime.
type Parser interface {
	// Parse processes the already-retrieved page body. hint is an optional
	// externally known project title adopted when the page yields none.
	Parse(infoID, sourceURL, html, hint string) *ParsedRecord
}

// PageFetcher retrieves announcement page bodies. Implementations own HTTP
// transport, authentication and retry; the parsing engine never sees them.
type PageFetcher interface {
	// Fetch returns the UTF-8 decoded page body for the URL.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	Close() error
}

// TokenSource supplies bearer tokens for the announcement portal.
type TokenSource interface {
	// Token returns a currently valid access token, refreshing as needed.
	Token(ctx context.Context) (string, error)

	// Invalidate discards cached tokens so the next Token call fetches
	// fresh credentials.
	Invalidate()
}
