package employee

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	GetEmployees(ctx context.Context) ([]*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	AddEmployee(ctx context.Context, in EmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, id int64) (*Employee, error)
	SearchEmployee(ctx context.Context, in SearchEmployeeInput) ([]*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// EmployeeInput は社員の作成・更新で受け付ける属性です。
type EmployeeInput struct {
	FirstName    string
	LastName     string
	Email        string
	DateOfBirth  *time.Time
	Gender       Gender
	DepartmentID *int64
	PhotoPath    *string
}

// UpdateEmployeeInput は社員更新時の入力です。ID 以外の属性はすべて上書きされます。
type UpdateEmployeeInput struct {
	ID int64
	EmployeeInput
}

// SearchEmployeeInput は社員検索時の入力です。
type SearchEmployeeInput struct {
	Name   string
	Gender *Gender
}

// GetEmployees は全社員を取得します。
func (s *Service) GetEmployees(ctx context.Context) ([]*Employee, error) {
	var result []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// AddEmployee は新しい社員を作成します。ID は永続化層が採番します。
func (s *Service) AddEmployee(ctx context.Context, in EmployeeInput) (*Employee, error) {
	emp, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は既存社員の属性を上書きします。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	next, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		next.ID = existing.ID
		result, err := s.repo.Update(txCtx, next)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEmployee は社員を削除し、削除したレコードを返します。
func (s *Service) DeleteEmployee(ctx context.Context, id int64) (*Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var deleted *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Delete(txCtx, id)
		if err != nil {
			return err
		}
		deleted = result
		return nil
	}); err != nil {
		return nil, err
	}

	return deleted, nil
}

// SearchEmployee は氏名の部分一致 (大文字小文字を区別しない) と性別で社員を検索します。
// 該当者がいない場合は空のスライスを返します。
func (s *Service) SearchEmployee(ctx context.Context, in SearchEmployeeInput) ([]*Employee, error) {
	filter := SearchFilter{Name: strings.TrimSpace(in.Name)}
	if in.Gender != nil {
		if !isValidGender(*in.Gender) {
			return nil, ErrInvalidGender
		}
		gender := *in.Gender
		filter.Gender = &gender
	}

	var result []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.Search(txCtx, filter)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	if result == nil {
		result = []*Employee{}
	}
	return result, nil
}

func (in EmployeeInput) normalize() (*Employee, error) {
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, ErrInvalidFirstName
	}

	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, ErrInvalidLastName
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if !isValidGender(in.Gender) {
		return nil, ErrInvalidGender
	}

	var departmentID *int64
	if in.DepartmentID != nil {
		if *in.DepartmentID <= 0 {
			return nil, ErrInvalidDepartmentID
		}
		id := *in.DepartmentID
		departmentID = &id
	}

	return &Employee{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		DateOfBirth:  normalizeDate(in.DateOfBirth),
		Gender:       in.Gender,
		DepartmentID: departmentID,
		PhotoPath:    normalizeOptional(in.PhotoPath),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()
	normalized := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}
