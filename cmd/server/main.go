package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/codex-employee-api/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-employee-api/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-employee-api/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-employee-api/internal/core/department"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	pg "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
	"github.com/ogurasousui/codex-employee-api/internal/platform/server"
	"github.com/ogurasousui/codex-employee-api/internal/platform/tracing"
)

func main() {
	if err := run(); err != nil {
		logger.Error(context.Background(), err, "server stopped with error")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	closeLog, err := logger.Init(cfg.Log.Level, cfg.Log.FilePath)
	if err != nil {
		return err
	}
	defer closeLog()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn(tctx, err, "tracing shutdown failed")
		}
	}()

	var (
		employeeRepo   employee.Repository
		departmentRepo department.Repository
		txManager      employee.TransactionManager
		db             pg.Pinger
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		departments := memory.NewDepartmentRepository(memory.DefaultDepartments())
		employeeRepo = memory.NewEmployeeRepository(departments)
		departmentRepo = departments
		logger.Info(ctx, "using in-memory storage")
	default:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		employeeRepo = postgres.NewEmployeeRepository(pool)
		departmentRepo = postgres.NewDepartmentRepository(pool)
		txManager = pg.NewTransactionManager(pool)
		db = pool
	}

	employeeSvc := employee.NewService(employeeRepo, txManager)
	departmentSvc := department.NewService(departmentRepo)

	e := server.NewEcho(cfg.Tracing.ServiceName)
	handler.RegisterRoutes(e,
		handler.NewEmployeeHandler(employeeSvc),
		handler.NewDepartmentHandler(departmentSvc),
		handler.NewHealthHandler(db),
	)

	srv := server.New(cfg.Server, e, db)
	logger.Info(ctx, "employee api starting driver=%s listen=%s health=%s", cfg.Database.Driver, cfg.Server.ListenAddr, cfg.Server.HealthAddr)

	return srv.Run(ctx)
}
