package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "sikre/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, domainerrors.Response) {
	t.Helper()

	mw := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/items", nil), rec)

	mw.HandleHTTPError(err, c)

	var body domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return rec, body
}

func TestHandleHTTPError_StoreFailureIsRetryable(t *testing.T) {
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "failed to list items")

	// Wrapping on the way up through the use case must not hide the typed error.
	rec, body := renderError(t, errors.Wrap(dbErr, "failed to list items"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", body.Error.Code)
	assert.False(t, body.Success)
}

func TestHandleHTTPError_AppErrorKeepsStatusAndCode(t *testing.T) {
	rec, body := renderError(t, domainerrors.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestHandleHTTPError_UnknownErrorHidesInternals(t *testing.T) {
	rec, body := renderError(t, errors.New("pq: syntax error at or near SELECT"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, rec.Body.String(), "syntax error")
}
