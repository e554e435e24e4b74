package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	pgdb "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
)

const readinessTimeout = 2 * time.Second

// HealthHandler は liveness / readiness を返します。db が nil の場合 readiness は常に成功します。
type HealthHandler struct {
	db pgdb.Pinger
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(db pgdb.Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Live はプロセスが応答可能であることを返します。
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// Ready はデータベースへの疎通を確認します。
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.check(ctx); err != nil {
		logger.Warn(ctx, err, "readiness check failed")
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthHandler) check(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	return pgdb.Ping(ctx, h.db, readinessTimeout)
}
