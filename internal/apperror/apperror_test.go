package apperror

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("BAD", "bad"), KindValidation},
		{"auth", Unauthorized("UNAUTHORIZED", "unauthorized"), KindAuth},
		{"forbidden", Forbidden("USER_INACTIVE", "inactive"), KindForbidden},
		{"not found", NotFound("NOT_FOUND", "missing"), KindNotFound},
		{"storage", Storage("repo.Create", sql.ErrConnDone), KindStorage},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("NOT_FOUND", "missing")), KindNotFound},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStorage_KeepsCauseAndHidesDetail(t *testing.T) {
	err := Storage("documents.insert", sql.ErrConnDone)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, "INTERNAL_ERROR", err.Code)
	assert.Equal(t, "internal server error", err.Message)
	assert.Contains(t, err.Error(), "documents.insert")
}

func TestWrap_DoesNotMutateOriginal(t *testing.T) {
	base := Validation("FILE_TOO_LARGE", "file too large")
	cause := errors.New("size 99")

	wrapped := base.Wrap(cause)

	assert.Nil(t, base.Err)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, base.Code, wrapped.Code)
}

func TestAs(t *testing.T) {
	ae, ok := As(fmt.Errorf("ctx: %w", Forbidden("USER_INACTIVE", "inactive")))
	assert.True(t, ok)
	assert.Equal(t, "USER_INACTIVE", ae.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestIs_MatchesWrappedSentinel(t *testing.T) {
	sentinel := Validation("FILE_TYPE_UNSUPPORTED", "unsupported")
	wrapped := fmt.Errorf("handler: %w", sentinel.Wrap(errors.New("text/plain")))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, Validation("FILE_TOO_LARGE", "too large"))
	assert.NotErrorIs(t, wrapped, NotFound("FILE_TYPE_UNSUPPORTED", "same code, other kind"))
}
