package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hweisong/tenderparse"
	"github.com/shopspring/decimal"
)

// Compile-time interface verification.
var _ tenderparse.RecordService = (*RecordService)(nil)

// RecordService implements tenderparse.RecordService using SQLite. Records
// are keyed by their external business key: upserting a record with an
// already-stored info ID replaces the previous parse result.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// recordColumns is the canonical column list shared by every SELECT.
const recordColumns = `id, info_id, source_url, project_no, project_name, tender_method, area,
	budget_amount, publish_time, doc_acquisition_start, doc_acquisition_end,
	bidding_deadline, opening_time, opening_venue,
	purchaser_name, purchaser_address, purchaser_phone,
	agent_name, agent_address, agent_phone,
	project_contact_name, project_contact_phone,
	section_overview, section_basic_info, section_qualification,
	section_doc_acquisition, section_bidding_schedule, section_announcement_period,
	section_other_matters, section_contact, section_procurement_need,
	status, error_message, parse_time, content_hash`

// FindRecordByInfoID retrieves a record by its external business key.
func (s *RecordService) FindRecordByInfoID(ctx context.Context, infoID string) (*tenderparse.ParsedRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM tender_records
		WHERE info_id = ?
	`, infoID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, tenderparse.Errorf(tenderparse.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpsertRecord inserts the record, or replaces the existing record with the
// same InfoID. Returns the number of rows affected.
func (s *RecordService) UpsertRecord(ctx context.Context, rec *tenderparse.ParsedRecord) (int, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ParseTime.IsZero() {
		rec.ParseTime = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tender_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(info_id) DO UPDATE SET
			source_url = excluded.source_url,
			project_no = excluded.project_no,
			project_name = excluded.project_name,
			tender_method = excluded.tender_method,
			area = excluded.area,
			budget_amount = excluded.budget_amount,
			publish_time = excluded.publish_time,
			doc_acquisition_start = excluded.doc_acquisition_start,
			doc_acquisition_end = excluded.doc_acquisition_end,
			bidding_deadline = excluded.bidding_deadline,
			opening_time = excluded.opening_time,
			opening_venue = excluded.opening_venue,
			purchaser_name = excluded.purchaser_name,
			purchaser_address = excluded.purchaser_address,
			purchaser_phone = excluded.purchaser_phone,
			agent_name = excluded.agent_name,
			agent_address = excluded.agent_address,
			agent_phone = excluded.agent_phone,
			project_contact_name = excluded.project_contact_name,
			project_contact_phone = excluded.project_contact_phone,
			section_overview = excluded.section_overview,
			section_basic_info = excluded.section_basic_info,
			section_qualification = excluded.section_qualification,
			section_doc_acquisition = excluded.section_doc_acquisition,
			section_bidding_schedule = excluded.section_bidding_schedule,
			section_announcement_period = excluded.section_announcement_period,
			section_other_matters = excluded.section_other_matters,
			section_contact = excluded.section_contact,
			section_procurement_need = excluded.section_procurement_need,
			status = excluded.status,
			error_message = excluded.error_message,
			parse_time = excluded.parse_time,
			content_hash = excluded.content_hash
	`,
		rec.ID, rec.InfoID, rec.SourceURL, rec.ProjectNo, rec.ProjectName, rec.TenderMethod, rec.Area,
		nullDecimal(rec.BudgetAmount), nullTime(rec.PublishTime), nullTime(rec.DocAcquisitionStart),
		nullTime(rec.DocAcquisitionEnd), nullTime(rec.BiddingDeadline), nullTime(rec.OpeningTime),
		rec.OpeningVenue,
		rec.PurchaserName, rec.PurchaserAddress, rec.PurchaserPhone,
		rec.AgentName, rec.AgentAddress, rec.AgentPhone,
		rec.ProjectContactName, rec.ProjectContactPhone,
		rec.SectionOverview, rec.SectionBasicInfo, rec.SectionQualification,
		rec.SectionDocAcquisition, rec.SectionBiddingSchedule, rec.SectionAnnouncementPeriod,
		rec.SectionOtherMatters, rec.SectionContact, rec.SectionProcurementNeed,
		string(rec.Status), rec.ErrorMessage, rec.ParseTime.Format(time.RFC3339), rec.ContentHash)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// FindRecords retrieves records matching the filter, most recently parsed
// first.
func (s *RecordService) FindRecords(ctx context.Context, filter tenderparse.RecordFilter) ([]*tenderparse.ParsedRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM tender_records WHERE 1=1")

	if filter.InfoID != nil {
		query.WriteString(" AND info_id = ?")
		args = append(args, *filter.InfoID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY parse_time DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*tenderparse.ParsedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row in recordColumns order.
func scanRecord(row rowScanner) (*tenderparse.ParsedRecord, error) {
	var rec tenderparse.ParsedRecord
	var status string
	var parseTime string
	var budget sql.NullString
	var publishTime, docStart, docEnd, deadline, openingTime sql.NullString

	if err := row.Scan(
		&rec.ID, &rec.InfoID, &rec.SourceURL, &rec.ProjectNo, &rec.ProjectName, &rec.TenderMethod, &rec.Area,
		&budget, &publishTime, &docStart, &docEnd, &deadline, &openingTime,
		&rec.OpeningVenue,
		&rec.PurchaserName, &rec.PurchaserAddress, &rec.PurchaserPhone,
		&rec.AgentName, &rec.AgentAddress, &rec.AgentPhone,
		&rec.ProjectContactName, &rec.ProjectContactPhone,
		&rec.SectionOverview, &rec.SectionBasicInfo, &rec.SectionQualification,
		&rec.SectionDocAcquisition, &rec.SectionBiddingSchedule, &rec.SectionAnnouncementPeriod,
		&rec.SectionOtherMatters, &rec.SectionContact, &rec.SectionProcurementNeed,
		&status, &rec.ErrorMessage, &parseTime, &rec.ContentHash,
	); err != nil {
		return nil, err
	}

	rec.Status = tenderparse.ParseStatus(status)

	var err error
	rec.ParseTime, err = parseRFC3339(parseTime, "parse_time")
	if err != nil {
		return nil, err
	}

	if budget.Valid {
		amount, err := decimal.NewFromString(budget.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse budget_amount: %w", err)
		}
		rec.BudgetAmount = &amount
	}

	if rec.PublishTime, err = scanNullTime(publishTime, "publish_time"); err != nil {
		return nil, err
	}
	if rec.DocAcquisitionStart, err = scanNullTime(docStart, "doc_acquisition_start"); err != nil {
		return nil, err
	}
	if rec.DocAcquisitionEnd, err = scanNullTime(docEnd, "doc_acquisition_end"); err != nil {
		return nil, err
	}
	if rec.BiddingDeadline, err = scanNullTime(deadline, "bidding_deadline"); err != nil {
		return nil, err
	}
	if rec.OpeningTime, err = scanNullTime(openingTime, "opening_time"); err != nil {
		return nil, err
	}

	return &rec, nil
}
