package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hweisong/tenderparse"
	"github.com/hweisong/tenderparse/batch"
	main "github.com/hweisong/tenderparse/cmd/tenderparse"
	"github.com/hweisong/tenderparse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdBatch(t *testing.T) {
	t.Parallel()

	t.Run("runs items from a tab-separated file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "items.tsv")
		content := "# portal export\n" +
			"2025-001\thttp://portal/1\t设备采购公告\n" +
			"\n" +
			"2025-002\thttp://portal/2\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		var fetched []string
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Runner = &batch.Runner{
			Fetcher: &mock.PageFetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					fetched = append(fetched, url)
					return "<html></html>", nil
				},
			},
			Parser: &mock.Parser{
				ParseFn: func(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
					return &tenderparse.ParsedRecord{InfoID: infoID, Status: tenderparse.StatusSuccess}
				},
			},
			Records: &mock.RecordService{
				UpsertRecordFn: func(ctx context.Context, rec *tenderparse.ParsedRecord) (int, error) {
					return 1, nil
				},
			},
			Concurrency: 1,
		}

		cmd := &main.BatchCmd{File: path}
		require.NoError(t, cmd.Run(deps))

		assert.Len(t, fetched, 2)
		assert.Contains(t, stdout.String(), "Parsing 2 announcements")
		assert.Contains(t, stdout.String(), "Parsed 2, skipped 0, unchanged 0, failed 0")
	})

	t.Run("rejects a malformed line", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "items.tsv")
		require.NoError(t, os.WriteFile(path, []byte("just-an-id-without-url\n"), 0644))

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)

		cmd := &main.BatchCmd{File: path}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, tenderparse.EINVALID, tenderparse.ErrorCode(err))
	})

	t.Run("reports a missing items file", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)

		cmd := &main.BatchCmd{File: filepath.Join(t.TempDir(), "absent.tsv")}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "cannot read")
	})
}
