package tenderparse

import "time"

// Config holds the engine and collaborator tunables. The classification
// thresholds were tuned empirically against a single portal's templates and
// are deliberately configurable rather than constants.
type Config struct {
	// Classification thresholds.
	MinStandardSections int // canonical section headings required for a standard verdict
	MinStrongTags       int // emphasis-marked headings accepted as equivalent evidence

	// Field length caps applied by the validation pass. Truncation happens
	// at rune boundaries; values are rune counts.
	MaxProjectNameLen  int
	MaxPartyNameLen    int
	MaxAddressLen      int
	MaxContactNameLen  int
	MaxTenderMethodLen int
	MaxAreaLen         int
	MaxVenueLen        int

	// Fetch and batch tunables, used by the collaborators around the
	// engine, never inside it.
	FetchTimeout    time.Duration
	MaxRetries      int
	BatchSize       int
	Concurrency     int
	RequestInterval time.Duration
}

// DefaultConfig returns the tunables as tuned against the Hebei portal.
func DefaultConfig() Config {
	return Config{
		MinStandardSections: 3,
		MinStrongTags:       4,

		MaxProjectNameLen:  200,
		MaxPartyNameLen:    100,
		MaxAddressLen:      200,
		MaxContactNameLen:  50,
		MaxTenderMethodLen: 50,
		MaxAreaLen:         50,
		MaxVenueLen:        500,

		FetchTimeout:    30 * time.Second,
		MaxRetries:      3,
		BatchSize:       100,
		Concurrency:     10,
		RequestInterval: 200 * time.Millisecond,
	}
}
