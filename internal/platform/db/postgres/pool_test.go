package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "user",
		Password:        "pass",
		Name:            "db",
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}

	poolCfg, err := BuildPoolConfig(dbCfg)
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 {
		t.Errorf("expected MaxConns 20, got %d", poolCfg.MaxConns)
	}

	if poolCfg.MinConns != 5 {
		t.Errorf("expected MinConns 5, got %d", poolCfg.MinConns)
	}

	if poolCfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("unexpected MaxConnLifetime: %v", poolCfg.MaxConnLifetime)
	}

	if poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected MaxConnIdleTime: %v", poolCfg.MaxConnIdleTime)
	}

	if poolCfg.ConnConfig.Database != "db" {
		t.Errorf("expected database db, got %s", poolCfg.ConnConfig.Database)
	}
}

func TestBuildPoolConfig_ClampsMinConns(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(config.DatabaseConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "user",
		Password:     "pass",
		Name:         "db",
		SSLMode:      "disable",
		MaxOpenConns: 2,
		MaxIdleConns: 8,
	})
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}
	if poolCfg.MinConns != 2 {
		t.Fatalf("expected MinConns clamped to 2, got %d", poolCfg.MinConns)
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPing(t *testing.T) {
	t.Parallel()

	ok := pingerFunc(func(ctx context.Context) error {
		if _, has := ctx.Deadline(); !has {
			t.Errorf("expected deadline on ping context")
		}
		return nil
	})
	if err := Ping(context.Background(), ok, time.Second); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}

	cause := errors.New("connection refused")
	failing := pingerFunc(func(context.Context) error { return cause })
	if err := Ping(context.Background(), failing, 0); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}

	if err := Ping(context.Background(), nil, time.Second); err == nil {
		t.Fatal("expected error for nil pinger")
	}
}
