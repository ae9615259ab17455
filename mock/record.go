package mock

import (
	"context"

	"github.com/hweisong/tenderparse"
)

var _ tenderparse.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of tenderparse.RecordService.
type RecordService struct {
	FindRecordByInfoIDFn func(ctx context.Context, infoID string) (*tenderparse.ParsedRecord, error)
	UpsertRecordFn       func(ctx context.Context, record *tenderparse.ParsedRecord) (int, error)
	FindRecordsFn        func(ctx context.Context, filter tenderparse.RecordFilter) ([]*tenderparse.ParsedRecord, error)
}

func (s *RecordService) FindRecordByInfoID(ctx context.Context, infoID string) (*tenderparse.ParsedRecord, error) {
	return s.FindRecordByInfoIDFn(ctx, infoID)
}

func (s *RecordService) UpsertRecord(ctx context.Context, record *tenderparse.ParsedRecord) (int, error) {
	return s.UpsertRecordFn(ctx, record)
}

func (s *RecordService) FindRecords(ctx context.Context, filter tenderparse.RecordFilter) ([]*tenderparse.ParsedRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}
