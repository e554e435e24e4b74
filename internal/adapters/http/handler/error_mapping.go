package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/codex-employee-api/internal/core/department"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
)

const (
	msgRetrieveFailed = "Error retrieving data from the database"
	msgUpdateFailed   = "Error updating data"
	msgDeleteFailed   = "Error deleting data"
	msgIDMismatch     = "Employee ID mismatch"
)

// toHTTPError はドメインエラーを echo.HTTPError に変換します。
// notFoundMsg が空の場合はエラー文言をそのまま返します。500 の場合は internalMsg のみを返し、原因はログに残します。
func toHTTPError(ctx context.Context, err error, notFoundMsg, internalMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidFirstName),
		errors.Is(err, employee.ErrInvalidLastName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidGender),
		errors.Is(err, employee.ErrInvalidDepartmentID),
		errors.Is(err, employee.ErrDepartmentNotFound),
		errors.Is(err, department.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, employee.ErrIDMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, msgIDMismatch)
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, department.ErrDepartmentNotFound):
		if notFoundMsg == "" {
			notFoundMsg = err.Error()
		}
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	default:
		logger.Error(ctx, err, "%s", internalMsg)
		return echo.NewHTTPError(http.StatusInternalServerError, internalMsg).SetInternal(err)
	}
}
