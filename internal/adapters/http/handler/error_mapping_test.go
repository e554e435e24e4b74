package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/codex-employee-api/internal/core/department"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "invalid gender", err: employee.ErrInvalidGender, code: http.StatusBadRequest},
		{name: "unknown department reference", err: employee.ErrDepartmentNotFound, code: http.StatusBadRequest},
		{name: "invalid department id", err: department.ErrInvalidID, code: http.StatusBadRequest},
		{name: "id mismatch", err: employee.ErrIDMismatch, code: http.StatusBadRequest},
		{name: "employee not found", err: employee.ErrEmployeeNotFound, code: http.StatusNotFound},
		{name: "department not found", err: department.ErrDepartmentNotFound, code: http.StatusNotFound},
	}

	for _, tt := range tests {
		var he *echo.HTTPError
		require.ErrorAs(t, toHTTPError(context.Background(), tt.err, "", msgRetrieveFailed), &he, tt.name)
		assert.Equal(t, tt.code, he.Code, tt.name)
	}

	assert.NoError(t, toHTTPError(context.Background(), nil, "", msgRetrieveFailed))
}

// グローバルロガーを差し替えるため並列実行しない。
func TestToHTTPError_LogsInternalMessageVerbatim(t *testing.T) {
	var buf bytes.Buffer
	logger.Set(zerolog.New(&buf))
	t.Cleanup(func() { logger.Set(zerolog.Nop()) })

	const internalMsg = "Error retrieving 100% of rows %d"
	cause := errors.New("connection reset")

	var he *echo.HTTPError
	require.ErrorAs(t, toHTTPError(context.Background(), cause, "", internalMsg), &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Equal(t, internalMsg, he.Message)
	assert.ErrorIs(t, he.Internal, cause)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, internalMsg, entry["message"])
	assert.Equal(t, "connection reset", entry["error"])
}
