package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"casetasks/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	StatusOk        = "ok"
	StatusDown      = "down"
	healthDBTimeout = 2 * time.Second
)

const countPendingMigrationsQuery = `
SELECT COUNT(*)
FROM objects
WHERE type = 'task' AND (sys_data IS NULL OR JSON_EXTRACT(sys_data, '$.status') IS NULL);
`

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Mysql string `json:"mysql"`
}

type HealthAdvanced struct {
	AppName               string         `json:"app_name"`
	AppVersion            string         `json:"app_version"`
	CurrentSystemTime     string         `json:"current_system_time"`
	Language              string         `json:"language"`
	Status                HealthServices `json:"status"`
	PendingTaskMigrations *int           `json:"pending_task_migrations,omitempty"`
}

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx := c.Request.Context()
	statusCode := http.StatusOK
	message := StatusOk

	if !h.checkConnectionToDatabase(ctx) {
		statusCode = http.StatusServiceUnavailable
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	ctx := c.Request.Context()

	report := HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Language:          middleware.GetLang(c),
		Status:            HealthServices{Mysql: StatusDown},
	}

	if h.checkConnectionToDatabase(ctx) {
		report.Status.Mysql = StatusOk
		report.PendingTaskMigrations = h.countPendingMigrations(ctx)
	}

	c.JSON(http.StatusOK, report)
}

func (h *HealthHandler) checkConnectionToDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()
	return h.db.PingContext(timeoutCtx) == nil
}

func (h *HealthHandler) countPendingMigrations(ctx context.Context) *int {
	timeoutCtx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()

	var pending int
	if err := h.db.GetContext(timeoutCtx, &pending, countPendingMigrationsQuery); err != nil {
		zap.L().Warn("failed to count pending task migrations", zap.Error(err))
		return nil
	}
	return &pending
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}
