package employee

import (
	"strings"
	"time"
)

// Gender は社員の性別を表します。
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender は大文字小文字を区別せずに性別を解釈します。
func ParseGender(raw string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(raw)))
	if !isValidGender(g) {
		return "", ErrInvalidGender
	}
	return g, nil
}

// Employee は社員エンティティです。
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	DateOfBirth  *time.Time
	Gender       Gender
	DepartmentID *int64
	PhotoPath    *string
	Department   *DepartmentSnapshot
}

// DepartmentSnapshot は社員に紐づく部署情報のスナップショットです。
type DepartmentSnapshot struct {
	ID   int64
	Name string
}
