package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hweisong/tenderparse"
	main "github.com/hweisong/tenderparse/cmd/tenderparse"
	"github.com/hweisong/tenderparse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}
}

func TestCmdParse(t *testing.T) {
	t.Parallel()

	t.Run("parses a local file and stores the record", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte("<html>公告</html>"), 0644))

		var stored *tenderparse.ParsedRecord
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Parser = &mock.Parser{
			ParseFn: func(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
				assert.Equal(t, "<html>公告</html>", html)
				return &tenderparse.ParsedRecord{
					InfoID:      infoID,
					ProjectName: "测试项目",
					Status:      tenderparse.StatusSuccess,
				}
			},
		}
		deps.Records = &mock.RecordService{
			UpsertRecordFn: func(ctx context.Context, rec *tenderparse.ParsedRecord) (int, error) {
				stored = rec
				return 1, nil
			},
		}

		cmd := &main.ParseCmd{InfoID: "2025-001", File: path}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, stored)
		assert.Equal(t, "2025-001", stored.InfoID)
		assert.Contains(t, stdout.String(), "测试项目")
		assert.Contains(t, stdout.String(), "success")
		assert.Empty(t, stderr.String())
	})

	t.Run("fetches the URL when no file is given", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Fetcher = &mock.PageFetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				assert.Equal(t, "http://portal/a", url)
				return "<html></html>", nil
			},
		}
		deps.Parser = &mock.Parser{
			ParseFn: func(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
				assert.Equal(t, "http://portal/a", sourceURL)
				return &tenderparse.ParsedRecord{InfoID: infoID, Status: tenderparse.StatusFailed, ErrorMessage: "empty document"}
			},
		}
		deps.Records = &mock.RecordService{
			UpsertRecordFn: func(ctx context.Context, rec *tenderparse.ParsedRecord) (int, error) {
				return 1, nil
			},
		}

		cmd := &main.ParseCmd{InfoID: "2025-002", URL: "http://portal/a"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "empty document")
	})

	t.Run("dry run does not store", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0644))

		var upserts int
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Parser = &mock.Parser{
			ParseFn: func(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
				return &tenderparse.ParsedRecord{InfoID: infoID, Status: tenderparse.StatusSuccess, ProjectName: "x"}
			},
		}
		deps.Records = &mock.RecordService{
			UpsertRecordFn: func(ctx context.Context, rec *tenderparse.ParsedRecord) (int, error) {
				upserts++
				return 1, nil
			},
		}

		cmd := &main.ParseCmd{InfoID: "2025-003", File: path, DryRun: true}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, 0, upserts)
	})

	t.Run("requires a URL or a file", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)

		cmd := &main.ParseCmd{InfoID: "2025-004"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, tenderparse.EINVALID, tenderparse.ErrorCode(err))
		assert.Contains(t, stderr.String(), "provide a URL or --file")
	})
}
