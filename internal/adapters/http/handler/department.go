package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/codex-employee-api/internal/core/department"
)

// DepartmentHandler は部署参照 API の HTTP 実装です。
type DepartmentHandler struct {
	svc department.UseCase
}

// NewDepartmentHandler は DepartmentHandler を生成します。
func NewDepartmentHandler(svc department.UseCase) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// ListDepartments は部署の一覧を返します。
func (h *DepartmentHandler) ListDepartments(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.svc.GetDepartments(ctx)
	if err != nil {
		return toHTTPError(ctx, err, "", msgRetrieveFailed)
	}

	out := make([]departmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDepartmentResponse(d))
	}
	return c.JSON(http.StatusOK, out)
}

// GetDepartment は ID で部署を返します。
func (h *DepartmentHandler) GetDepartment(c echo.Context) error {
	ctx := c.Request().Context()

	raw := c.Param("id")
	id, ok := parsePositiveInt(raw)
	if !ok {
		return toHTTPError(ctx, fmt.Errorf("id %q: %w", raw, department.ErrInvalidID), "", msgRetrieveFailed)
	}

	found, err := h.svc.GetDepartment(ctx, id)
	if err != nil {
		return toHTTPError(ctx, err, fmt.Sprintf("Department with Id = %d is not found.", id), msgRetrieveFailed)
	}

	return c.JSON(http.StatusOK, toDepartmentResponse(found))
}
