package tenderparse

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ParseStatus represents the terminal outcome of a parse invocation.
type ParseStatus string

// Parse outcomes. A record is constructed once per parse and is immutable
// after the orchestrator returns it.
const (
	StatusSuccess            ParseStatus = "success"
	StatusFailed             ParseStatus = "failed"
	StatusSkippedNonStandard ParseStatus = "skipped_non_standard"
)

// ParsedRecord is the structured output of parsing one announcement page.
type ParsedRecord struct {
	ID        string `json:"id"`
	InfoID    string `json:"infoId"`
	SourceURL string `json:"sourceUrl"`

	// Classification fields.
	ProjectNo    string `json:"projectNo"`
	ProjectName  string `json:"projectName"`
	TenderMethod string `json:"tenderMethod"`
	Area         string `json:"area"`

	// BudgetAmount is expressed in yuan, the base currency unit. Any
	// 万/万元 multiplier in the source is resolved before the field is set.
	BudgetAmount *decimal.Decimal `json:"budgetAmount"`

	// Temporal milestones. Each is either a fully resolved instant or nil,
	// never a partially parsed string.
	PublishTime         *time.Time `json:"publishTime"`
	DocAcquisitionStart *time.Time `json:"docAcquisitionStart"`
	DocAcquisitionEnd   *time.Time `json:"docAcquisitionEnd"`
	BiddingDeadline     *time.Time `json:"biddingDeadline"`
	OpeningTime         *time.Time `json:"openingTime"`
	OpeningVenue        string     `json:"openingVenue"`

	// Parties.
	PurchaserName       string `json:"purchaserName"`
	PurchaserAddress    string `json:"purchaserAddress"`
	PurchaserPhone      string `json:"purchaserPhone"`
	AgentName           string `json:"agentName"`
	AgentAddress        string `json:"agentAddress"`
	AgentPhone          string `json:"agentPhone"`
	ProjectContactName  string `json:"projectContactName"`
	ProjectContactPhone string `json:"projectContactPhone"`

	// Verbatim section text, cleaned but otherwise unmodified.
	SectionOverview           string `json:"sectionOverview"`
	SectionBasicInfo          string `json:"sectionBasicInfo"`
	SectionQualification      string `json:"sectionQualification"`
	SectionDocAcquisition     string `json:"sectionDocAcquisition"`
	SectionBiddingSchedule    string `json:"sectionBiddingSchedule"`
	SectionAnnouncementPeriod string `json:"sectionAnnouncementPeriod"`
	SectionOtherMatters       string `json:"sectionOtherMatters"`
	SectionContact            string `json:"sectionContact"`
	SectionProcurementNeed    string `json:"sectionProcurementNeed"`

	// Outcome.
	Status       ParseStatus `json:"status"`
	ErrorMessage string      `json:"errorMessage"`
	ParseTime    time.Time   `json:"parseTime"`

	// ContentHash is the hash of the raw HTML the record was parsed from.
	// Stores use it to skip reparsing unchanged pages.
	ContentHash string `json:"contentHash"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ParsedRecord) Validate() error {
	if r.InfoID == "" {
		return Errorf(EINVALID, "record info ID required")
	}
	if r.Status == "" {
		return Errorf(EINVALID, "record parse status required")
	}
	if r.Status == StatusSuccess && r.ProjectName == "" {
		return Errorf(EINVALID, "successful record requires a project name")
	}
	return nil
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	InfoID *string      `json:"infoId"`
	Status *ParseStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordService represents a service for persisting parsed records.
// Upsert-by-InfoID semantics are the store's responsibility; the parsing
// engine has no storage dependency.
type RecordService interface {
	// FindRecordByInfoID retrieves a record by its external business key.
	// Returns ENOTFOUND if no record exists for the ID.
	FindRecordByInfoID(ctx context.Context, infoID string) (*ParsedRecord, error)

	// UpsertRecord inserts the record, or replaces the existing record with
	// the same InfoID. Returns the number of rows affected.
	UpsertRecord(ctx context.Context, record *ParsedRecord) (int, error)

	// FindRecords retrieves records matching the filter, most recently
	// parsed first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*ParsedRecord, error)
}
