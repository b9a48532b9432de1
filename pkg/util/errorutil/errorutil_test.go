package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	orig := NewConflict("trùng", map[string]any{"id": "1"})
	wrapped := fmt.Errorf("outer: %w", orig)

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "CONFLICT", got.Code)
	assert.Equal(t, http.StatusConflict, got.HTTPStatus)
	assert.Equal(t, "1", got.Details["id"])
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	got := ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	assert.Equal(t, "NOT_FOUND", got.Code)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	cause := errors.New("boom")
	got := ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.ErrorIs(t, got, cause)
}

func TestNotFoundOr(t *testing.T) {
	assert.NoError(t, NotFoundOr(nil, "ứng viên", nil))

	err := NotFoundOr(pgx.ErrNoRows, "ứng viên", map[string]any{"candidate_id": "c1"})
	de := ToDomainError(err)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "Không tìm thấy ứng viên", de.Message)
	assert.Equal(t, "c1", de.Details["candidate_id"])

	other := NotFoundOr(errors.New("db down"), "ứng viên", nil)
	assert.Equal(t, http.StatusInternalServerError, ToDomainError(other).HTTPStatus)
}

func TestMapErrorNil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMalformedIdentifierIsNotFound(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	wrapped := fmt.Errorf("get application: %w", pgErr)

	assert.True(t, IsInvalidText(wrapped))
	assert.Equal(t, http.StatusNotFound, ToDomainError(wrapped).HTTPStatus)

	de := ToDomainError(NotFoundOr(wrapped, "ứng viên", map[string]any{"candidate_id": "abc"}))
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, "abc", de.Details["candidate_id"])

	assert.False(t, IsInvalidText(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, http.StatusInternalServerError, ToDomainError(&pgconn.PgError{Code: "23505"}).HTTPStatus)
}
