package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/codex-employee-api/internal/core/department"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
)

const dateLayout = "2006-01-02"

// 日付のみの値に加えて、時刻付きの表現も受け付けます。
var acceptedDateLayouts = []string{dateLayout, time.RFC3339, "2006-01-02T15:04:05"}

type employeeRequest struct {
	EmployeeID   int64   `json:"employeeId"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	DateOfBirth  *string `json:"dateOfBirth"`
	Gender       string  `json:"gender"`
	DepartmentID *int64  `json:"departmentId"`
	PhotoPath    *string `json:"photoPath"`
}

func (r employeeRequest) toInput() (employee.EmployeeInput, error) {
	gender, err := employee.ParseGender(r.Gender)
	if err != nil {
		return employee.EmployeeInput{}, err
	}

	dob, err := parseDate(r.DateOfBirth)
	if err != nil {
		return employee.EmployeeInput{}, err
	}

	return employee.EmployeeInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		DateOfBirth:  dob,
		Gender:       gender,
		DepartmentID: r.DepartmentID,
		PhotoPath:    r.PhotoPath,
	}, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("dateOfBirth must be formatted as %s", dateLayout)
}

type departmentResponse struct {
	DepartmentID   int64  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
}

type employeeResponse struct {
	EmployeeID   int64               `json:"employeeId"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Email        string              `json:"email"`
	DateOfBirth  *string             `json:"dateOfBirth,omitempty"`
	Gender       string              `json:"gender"`
	DepartmentID *int64              `json:"departmentId,omitempty"`
	PhotoPath    *string             `json:"photoPath,omitempty"`
	Department   *departmentResponse `json:"department,omitempty"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	resp := employeeResponse{
		EmployeeID:   e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Gender:       string(e.Gender),
		DepartmentID: e.DepartmentID,
		PhotoPath:    e.PhotoPath,
	}
	if e.DateOfBirth != nil {
		v := e.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &v
	}
	if e.Department != nil {
		resp.Department = &departmentResponse{DepartmentID: e.Department.ID, DepartmentName: e.Department.Name}
	}
	return resp
}

func toEmployeeResponses(list []*employee.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return out
}

func toDepartmentResponse(d *department.Department) departmentResponse {
	return departmentResponse{DepartmentID: d.ID, DepartmentName: d.Name}
}
