package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
)

// EmployeeRepository はプロセス内メモリに社員を保持するリポジトリです。
// ID は 1 から単調増加で採番され、削除後も再利用されません。
type EmployeeRepository struct {
	mu          sync.RWMutex
	seq         int64
	employees   map[int64]employee.Employee
	departments *DepartmentRepository
}

// NewEmployeeRepository は EmployeeRepository を生成します。departments が nil の場合は部署参照を検証しません。
func NewEmployeeRepository(departments *DepartmentRepository) *EmployeeRepository {
	return &EmployeeRepository{
		employees:   make(map[int64]employee.Employee),
		departments: departments,
	}
}

// Create は社員を保存し、採番した ID を付与して返します。
func (r *EmployeeRepository) Create(_ context.Context, emp *employee.Employee) (*employee.Employee, error) {
	if err := r.checkDepartment(emp.DepartmentID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	stored := clone(emp)
	stored.ID = r.seq
	stored.Department = nil
	r.employees[stored.ID] = stored

	return r.view(stored), nil
}

// Update は既存社員の ID 以外の属性を上書きします。
func (r *EmployeeRepository) Update(_ context.Context, emp *employee.Employee) (*employee.Employee, error) {
	if err := r.checkDepartment(emp.DepartmentID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[emp.ID]; !ok {
		return nil, employee.ErrEmployeeNotFound
	}

	stored := clone(emp)
	stored.Department = nil
	r.employees[stored.ID] = stored

	return r.view(stored), nil
}

// Delete は社員を削除し、削除前の状態を返します。
func (r *EmployeeRepository) Delete(_ context.Context, id int64) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)

	return r.view(stored), nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(_ context.Context, id int64) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return r.view(stored), nil
}

// List は全社員を ID 昇順で返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	return r.Search(ctx, employee.SearchFilter{})
}

// Search は氏名の部分一致 (大文字小文字を区別しない) と性別で絞り込みます。
func (r *EmployeeRepository) Search(_ context.Context, filter employee.SearchFilter) ([]*employee.Employee, error) {
	name := strings.ToLower(strings.TrimSpace(filter.Name))

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*employee.Employee, 0, len(r.employees))
	for _, stored := range r.employees {
		if name != "" &&
			!strings.Contains(strings.ToLower(stored.FirstName), name) &&
			!strings.Contains(strings.ToLower(stored.LastName), name) {
			continue
		}
		if filter.Gender != nil && stored.Gender != *filter.Gender {
			continue
		}
		out = append(out, r.view(stored))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *EmployeeRepository) checkDepartment(id *int64) error {
	if id == nil || r.departments == nil {
		return nil
	}
	if _, ok := r.departments.name(*id); !ok {
		return employee.ErrDepartmentNotFound
	}
	return nil
}

// view は保存値のコピーに部署スナップショットを結合して返します。
func (r *EmployeeRepository) view(stored employee.Employee) *employee.Employee {
	out := clone(&stored)
	if out.DepartmentID != nil && r.departments != nil {
		if name, ok := r.departments.name(*out.DepartmentID); ok {
			out.Department = &employee.DepartmentSnapshot{ID: *out.DepartmentID, Name: name}
		}
	}
	return &out
}

func clone(src *employee.Employee) employee.Employee {
	dst := *src
	if src.DateOfBirth != nil {
		v := *src.DateOfBirth
		dst.DateOfBirth = &v
	}
	if src.DepartmentID != nil {
		v := *src.DepartmentID
		dst.DepartmentID = &v
	}
	if src.PhotoPath != nil {
		v := *src.PhotoPath
		dst.PhotoPath = &v
	}
	if src.Department != nil {
		v := *src.Department
		dst.Department = &v
	}
	return dst
}
