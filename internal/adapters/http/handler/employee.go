package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
)

// RouteGetEmployee は Location ヘッダーの生成に利用するルート名です。
const RouteGetEmployee = "employees.get"

// EmployeeHandler は社員 API の HTTP 実装です。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// ListEmployees は全社員を返します。
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.svc.GetEmployees(ctx)
	if err != nil {
		return toHTTPError(ctx, err, "", msgRetrieveFailed)
	}

	return c.JSON(http.StatusOK, toEmployeeResponses(list))
}

// GetEmployee は ID で社員を返します。
func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		return toHTTPError(ctx, err, "", msgRetrieveFailed)
	}

	found, err := h.svc.GetEmployee(ctx, id)
	if err != nil {
		return toHTTPError(ctx, err, notFoundByID(id), msgRetrieveFailed)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// CreateEmployee は社員を作成し、201 と Location ヘッダーを返します。
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := bindEmployee(c)
	if err != nil {
		return err
	}

	in, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.svc.AddEmployee(ctx, in)
	if err != nil {
		return toHTTPError(ctx, err, "", msgRetrieveFailed)
	}

	c.Response().Header().Set(echo.HeaderLocation, c.Echo().Reverse(RouteGetEmployee, created.ID))
	return c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// UpdateEmployee はパスの ID とペイロードの ID が一致する場合に社員を上書きします。
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		return toHTTPError(ctx, err, "", msgUpdateFailed)
	}

	req, err := bindEmployee(c)
	if err != nil {
		return err
	}
	if req.EmployeeID != id {
		return toHTTPError(ctx, employee.ErrIDMismatch, "", msgUpdateFailed)
	}

	in, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{ID: id, EmployeeInput: in})
	if err != nil {
		return toHTTPError(ctx, err, notFoundByID(id), msgUpdateFailed)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// DeleteEmployee は社員を削除し、削除したレコードを返します。
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		return toHTTPError(ctx, err, "", msgDeleteFailed)
	}

	deleted, err := h.svc.DeleteEmployee(ctx, id)
	if err != nil {
		return toHTTPError(ctx, err, notFoundByID(id), msgDeleteFailed)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(deleted))
}

// SearchEmployees は name と gender クエリで社員を検索します。該当なしは 404 です。
func (h *EmployeeHandler) SearchEmployees(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.QueryParam("name")

	in := employee.SearchEmployeeInput{Name: name}
	if raw := strings.TrimSpace(c.QueryParam("gender")); raw != "" {
		gender, err := employee.ParseGender(raw)
		if err != nil {
			return toHTTPError(ctx, err, "", msgRetrieveFailed)
		}
		in.Gender = &gender
	}

	found, err := h.svc.SearchEmployee(ctx, in)
	if err != nil {
		return toHTTPError(ctx, err, "", msgRetrieveFailed)
	}
	if len(found) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Employee with Name = %s is not found.", name))
	}

	return c.JSON(http.StatusOK, toEmployeeResponses(found))
}

func bindEmployee(c echo.Context) (*employeeRequest, error) {
	if c.Request().ContentLength == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "request body is required")
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	return &req, nil
}

func parseID(raw string) (int64, error) {
	id, ok := parsePositiveInt(raw)
	if !ok {
		return 0, fmt.Errorf("id %q: %w", raw, employee.ErrInvalidID)
	}
	return id, nil
}

// parsePositiveInt は数字のみで構成された正の整数を解釈します。符号や空白は受け付けません。
func parsePositiveInt(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func notFoundByID(id int64) string {
	return fmt.Sprintf("Employee with Id = %d is not found.", id)
}
