package tenderparse_test

import (
	"testing"

	"github.com/hweisong/tenderparse"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := tenderparse.Errorf(tenderparse.ENOTFOUND, "record %q not found", "test")

	assert.Equal(t, tenderparse.ENOTFOUND, tenderparse.ErrorCode(err))
	assert.Equal(t, "record \"test\" not found", tenderparse.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tenderparse.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tenderparse.ErrorMessage(nil))
}

func TestParsedRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires info ID", func(t *testing.T) {
		t.Parallel()

		r := &tenderparse.ParsedRecord{Status: tenderparse.StatusFailed}

		err := r.Validate()

		assert.Equal(t, tenderparse.EINVALID, tenderparse.ErrorCode(err))
	})

	t.Run("successful record requires project name", func(t *testing.T) {
		t.Parallel()

		r := &tenderparse.ParsedRecord{
			InfoID: "abc123",
			Status: tenderparse.StatusSuccess,
		}

		err := r.Validate()

		assert.Equal(t, tenderparse.EINVALID, tenderparse.ErrorCode(err))
	})

	t.Run("failed record without project name is valid", func(t *testing.T) {
		t.Parallel()

		r := &tenderparse.ParsedRecord{
			InfoID: "abc123",
			Status: tenderparse.StatusFailed,
		}

		assert.NoError(t, r.Validate())
	})
}
