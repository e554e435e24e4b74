package employee

import "errors"

var (
	ErrInvalidID           = errors.New("employee: invalid id")
	ErrInvalidFirstName    = errors.New("employee: invalid first name")
	ErrInvalidLastName     = errors.New("employee: invalid last name")
	ErrInvalidEmail        = errors.New("employee: invalid email")
	ErrInvalidGender       = errors.New("employee: invalid gender")
	ErrInvalidDepartmentID = errors.New("employee: invalid department id")
	ErrIDMismatch          = errors.New("employee: id mismatch")
	ErrEmployeeNotFound    = errors.New("employee: not found")
	ErrDepartmentNotFound  = errors.New("employee: department not found")
	// ErrStorage は永続化層の想定外の失敗を表します。
	ErrStorage = errors.New("employee: storage failure")
)
