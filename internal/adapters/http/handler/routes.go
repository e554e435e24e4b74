package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/codex-employee-api/internal/platform/metrics"
)

// RegisterRoutes はすべての HTTP ルートを登録します。
func RegisterRoutes(e *echo.Echo, employees *EmployeeHandler, departments *DepartmentHandler, health *HealthHandler) {
	e.GET("/healthz", health.Live)
	e.GET("/readyz", health.Ready)
	e.GET("/metrics", metrics.Handler())

	g := e.Group("/employees")
	g.GET("", employees.ListEmployees)
	g.POST("", employees.CreateEmployee)
	g.GET("/search", employees.SearchEmployees)
	g.GET("/:id", employees.GetEmployee).Name = RouteGetEmployee
	g.PUT("/:id", employees.UpdateEmployee)
	g.DELETE("/:id", employees.DeleteEmployee)

	e.GET("/departments", departments.ListDepartments)
	e.GET("/departments/:id", departments.GetDepartment)
}
