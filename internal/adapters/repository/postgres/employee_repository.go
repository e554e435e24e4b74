package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
)

const (
	employeeForeignKeyViolationCode = "23503"
	employeeCheckViolationCode      = "23514"

	employeeDepartmentFKConstraint = "employees_department_id_fkey"
)

const employeeColumns = `e.id, e.first_name, e.last_name, e.email, e.date_of_birth, e.gender, e.department_id, e.photo_path,
               d.id, d.name`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。ID は BIGSERIAL で採番されます。
func (r *EmployeeRepository) Create(ctx context.Context, emp *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH e AS (
            INSERT INTO employees (first_name, last_name, email, date_of_birth, gender, department_id, photo_path)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, first_name, last_name, email, date_of_birth, gender, department_id, photo_path
        )
        SELECT `+employeeColumns+`
          FROM e
          LEFT JOIN departments d ON d.id = e.department_id
    `,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		nullableDate(emp.DateOfBirth),
		string(emp.Gender),
		nullableInt64(emp.DepartmentID),
		nullableString(emp.PhotoPath),
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は ID 以外の全属性を上書きします。
func (r *EmployeeRepository) Update(ctx context.Context, emp *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH e AS (
            UPDATE employees
               SET first_name = $1,
                   last_name = $2,
                   email = $3,
                   date_of_birth = $4,
                   gender = $5,
                   department_id = $6,
                   photo_path = $7
             WHERE id = $8
            RETURNING id, first_name, last_name, email, date_of_birth, gender, department_id, photo_path
        )
        SELECT `+employeeColumns+`
          FROM e
          LEFT JOIN departments d ON d.id = e.department_id
    `,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		nullableDate(emp.DateOfBirth),
		string(emp.Gender),
		nullableInt64(emp.DepartmentID),
		nullableString(emp.PhotoPath),
		emp.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除し、削除した行を返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH e AS (
            DELETE FROM employees
             WHERE id = $1
            RETURNING id, first_name, last_name, email, date_of_birth, gender, department_id, photo_path
        )
        SELECT `+employeeColumns+`
          FROM e
          LEFT JOIN departments d ON d.id = e.department_id
    `, id)

	deleted, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return deleted, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees e
          LEFT JOIN departments d ON d.id = e.department_id
         WHERE e.id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は全社員を ID 昇順で取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	return r.query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees e
          LEFT JOIN departments d ON d.id = e.department_id
         ORDER BY e.id
    `)
}

// Search は氏名の部分一致 (ILIKE) と性別で社員を検索します。
func (r *EmployeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]*employee.Employee, error) {
	args := make([]any, 0, 2)
	conditions := make([]string, 0, 2)

	if name := strings.TrimSpace(filter.Name); name != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "(e.first_name ILIKE "+placeholder+" OR e.last_name ILIKE "+placeholder+")")
		args = append(args, "%"+escapeLike(name)+"%")
	}

	if filter.Gender != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "e.gender = "+placeholder)
		args = append(args, string(*filter.Gender))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "\n         WHERE " + strings.Join(conditions, " AND ")
	}

	return r.query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees e
          LEFT JOIN departments d ON d.id = e.department_id`+whereClause+`
         ORDER BY e.id
    `, args...)
}

func (r *EmployeeRepository) query(ctx context.Context, q string, args ...any) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, q, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id           int64
		firstName    string
		lastName     string
		email        string
		gender       string
		dateOfBirth  sql.NullTime
		departmentID sql.NullInt64
		photoPath    sql.NullString
		deptJoinedID sql.NullInt64
		deptName     sql.NullString
	)

	if err := row.Scan(
		&id,
		&firstName,
		&lastName,
		&email,
		&dateOfBirth,
		&gender,
		&departmentID,
		&photoPath,
		&deptJoinedID,
		&deptName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp := &employee.Employee{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Gender:    employee.Gender(gender),
	}

	if dateOfBirth.Valid {
		t := dateOfBirth.Time.UTC()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		emp.DateOfBirth = &date
	}
	if departmentID.Valid {
		v := departmentID.Int64
		emp.DepartmentID = &v
	}
	if photoPath.Valid {
		v := photoPath.String
		emp.PhotoPath = &v
	}
	if deptJoinedID.Valid {
		emp.Department = &employee.DepartmentSnapshot{ID: deptJoinedID.Int64, Name: deptName.String}
	}

	return emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeForeignKeyViolationCode:
			if pgErr.ConstraintName == employeeDepartmentFKConstraint || pgErr.ConstraintName == "" {
				return employee.ErrDepartmentNotFound
			}
		case employeeCheckViolationCode:
			return employee.ErrInvalidGender
		}
	}

	return fmt.Errorf("%w: %w", employee.ErrStorage, err)
}

// escapeLike は LIKE のワイルドカードをエスケープします。
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
