package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "save session")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeInternal, GetCode(err))
	assert.Contains(t, err.Error(), "save session")
	assert.Contains(t, err.Error(), "boom")
}

func TestGetCodeOnForeignError(t *testing.T) {
	// Errors that never passed through Wrap carry no code.
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
}

func TestCodeHelpers(t *testing.T) {
	assert.True(t, IsUnauthenticated(Unauthenticated("no session")))
	assert.True(t, IsSessionInvalid(SessionInvalid("no role")))
	assert.False(t, IsUnauthenticated(Forbidden("nope")))
}

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want ErrorCode
	}{
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{"no rows", pgx.ErrNoRows, ErrCodeNotFound},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrCodeConflict},
		{"check violation", &pgconn.PgError{Code: pgerrcode.CheckViolation}, ErrCodeValidation},
		{"other pg error", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(MapDBError(tt.in)))
		})
	}
}

func TestMapDBErrorNil(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBErrorPassesUnknownErrorsThrough(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, MapDBError(plain))
	assert.Equal(t, ErrorCode(""), GetCode(MapDBError(plain)))
}
