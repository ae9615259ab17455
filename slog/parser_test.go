package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/hweisong/tenderparse"
	"github.com/hweisong/tenderparse/mock"
	tpslog "github.com/hweisong/tenderparse/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs status and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
				return &tenderparse.ParsedRecord{
					InfoID: infoID,
					Status: tenderparse.StatusSuccess,
				}
			},
		}

		parser := tpslog.NewLoggingParser(inner, logger)
		record := parser.Parse("2025-001", "http://portal/2025-001", "<html></html>", "")

		require.NotNil(t, record)
		assert.Equal(t, tenderparse.StatusSuccess, record.Status)
		output := buf.String()
		assert.Contains(t, output, "parse")
		assert.Contains(t, output, "info_id=2025-001")
		assert.Contains(t, output, "status=success")
		assert.Contains(t, output, "duration=")
		assert.NotContains(t, output, "reason=")
	})

	t.Run("logs the skip reason", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
				return &tenderparse.ParsedRecord{
					InfoID:       infoID,
					Status:       tenderparse.StatusSkippedNonStandard,
					ErrorMessage: "表格式简易公告",
				}
			},
		}

		parser := tpslog.NewLoggingParser(inner, logger)
		parser.Parse("2025-002", "http://portal/2025-002", "<table></table>", "")

		output := buf.String()
		assert.Contains(t, output, "status=skipped_non_standard")
		assert.Contains(t, output, "reason=表格式简易公告")
	})
}
