package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-employee-api/internal/core/department"
	pgdb "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
)

// DepartmentRepository は PostgreSQL を利用した部署参照の実装です。
type DepartmentRepository struct {
	pool pgdb.Queryer
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT id, name FROM departments WHERE id = $1`, id)

	var d department.Department
	if err := row.Scan(&d.ID, &d.Name); err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return &d, nil
}

// List は部署を ID 昇順で取得します。
func (r *DepartmentRepository) List(ctx context.Context) ([]*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	defer rows.Close()

	departments := make([]*department.Department, 0)
	for rows.Next() {
		var d department.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, translateDepartmentPgError(err)
		}
		departments = append(departments, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDepartmentPgError(err)
	}

	return departments, nil
}

func translateDepartmentPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return department.ErrDepartmentNotFound
	}
	return fmt.Errorf("department: storage failure: %w", err)
}
