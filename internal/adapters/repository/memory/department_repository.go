package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ogurasousui/codex-employee-api/internal/core/department"
)

// DefaultDepartments は driver: memory で起動したときに投入される部署です。
// assets/migrations の部署シードと同じ内容です。
func DefaultDepartments() []department.Department {
	return []department.Department{
		{ID: 1, Name: "IT"},
		{ID: 2, Name: "HR"},
		{ID: 3, Name: "Payroll"},
		{ID: 4, Name: "Admin"},
	}
}

// DepartmentRepository はプロセス内メモリに部署を保持する参照専用リポジトリです。
type DepartmentRepository struct {
	mu          sync.RWMutex
	departments map[int64]department.Department
}

// NewDepartmentRepository は seed を保持する DepartmentRepository を生成します。
func NewDepartmentRepository(seed []department.Department) *DepartmentRepository {
	r := &DepartmentRepository{departments: make(map[int64]department.Department, len(seed))}
	for _, d := range seed {
		r.departments[d.ID] = d
	}
	return r
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(_ context.Context, id int64) (*department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.departments[id]
	if !ok {
		return nil, department.ErrDepartmentNotFound
	}
	return &d, nil
}

// List は部署を ID 昇順で返します。
func (r *DepartmentRepository) List(_ context.Context) ([]*department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*department.Department, 0, len(r.departments))
	for _, d := range r.departments {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DepartmentRepository) name(id int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.departments[id]
	return d.Name, ok
}
