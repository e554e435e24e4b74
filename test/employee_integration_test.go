//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	repo "github.com/ogurasousui/codex-employee-api/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-employee-api/internal/core/department"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	pg "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
)

const migrationsDir = "../assets/migrations"

func TestEmployeeCRUDIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	employeeRepo := repo.NewEmployeeRepository(pool)
	svc := employee.NewService(employeeRepo, pg.NewTransactionManager(pool))
	deptSvc := department.NewService(repo.NewDepartmentRepository(pool))

	departments, err := deptSvc.GetDepartments(ctx)
	if err != nil {
		t.Fatalf("GetDepartments error: %v", err)
	}
	if len(departments) != 4 {
		t.Fatalf("expected 4 seeded departments, got %d", len(departments))
	}

	dob := time.Date(1980, 10, 5, 0, 0, 0, 0, time.UTC)
	deptID := departments[0].ID
	created, err := svc.AddEmployee(ctx, employee.EmployeeInput{
		FirstName:    "John",
		LastName:     "Hastings",
		Email:        "David@pragimtech.com",
		DateOfBirth:  &dob,
		Gender:       employee.GenderMale,
		DepartmentID: &deptID,
	})
	if err != nil {
		t.Fatalf("AddEmployee error: %v", err)
	}
	if created.Department == nil || created.Department.Name != departments[0].Name {
		t.Fatalf("expected joined department, got %+v", created.Department)
	}

	found, err := svc.GetEmployee(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetEmployee error: %v", err)
	}
	if found.Email != "david@pragimtech.com" || found.DateOfBirth == nil || !found.DateOfBirth.Equal(dob) {
		t.Fatalf("unexpected stored employee %+v", found)
	}

	unknown := int64(999)
	if _, err := svc.AddEmployee(ctx, employee.EmployeeInput{FirstName: "X", LastName: "Y", Gender: employee.GenderOther, DepartmentID: &unknown}); !errors.Is(err, employee.ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{
		ID:            created.ID,
		EmployeeInput: employee.EmployeeInput{FirstName: "Johnny", LastName: "Hastings", Gender: employee.GenderMale},
	})
	if err != nil {
		t.Fatalf("UpdateEmployee error: %v", err)
	}
	if updated.FirstName != "Johnny" || updated.DepartmentID != nil || updated.DateOfBirth != nil {
		t.Fatalf("update not applied: %+v", updated)
	}

	male := employee.GenderMale
	matches, err := svc.SearchEmployee(ctx, employee.SearchEmployeeInput{Name: "JOHN", Gender: &male})
	if err != nil {
		t.Fatalf("SearchEmployee error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != created.ID {
		t.Fatalf("unexpected search result %+v", matches)
	}

	if _, err := svc.DeleteEmployee(ctx, created.ID); err != nil {
		t.Fatalf("DeleteEmployee error: %v", err)
	}

	if _, err := svc.GetEmployee(ctx, created.ID); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func resetMigrations(dsn, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}
