package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"gorm.io/gorm"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/session"
)

type HealthCheckHandler struct {
	db       *gorm.DB
	denylist session.Denylist
}

func NewHealthCheckHandler(db *gorm.DB, denylist session.Denylist) *HealthCheckHandler {
	return &HealthCheckHandler{db: db, denylist: denylist}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"` // 关键组件标识
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck 增强的健康检查接口
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(startupTime).Round(time.Second).String(),
		Components: []ComponentStatus{
			h.checkDatabase(ctx),
			h.checkDenylist(ctx),
		},
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(503, status)
		return
	}

	c.JSON(200, status)
}

func (h *HealthCheckHandler) checkDatabase(ctx context.Context) ComponentStatus {
	comp := ComponentStatus{Name: "database", IsCore: true, Status: "ok"}
	start := time.Now()
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	comp.Latency = time.Since(start)
	if err != nil {
		comp.Status = "down"
		comp.Error = err.Error()
	}
	return comp
}

func (h *HealthCheckHandler) checkDenylist(ctx context.Context) ComponentStatus {
	comp := ComponentStatus{Name: "session_store", Status: "ok"}
	start := time.Now()
	if err := h.denylist.Ping(ctx); err != nil {
		comp.Status = "down"
		comp.Error = err.Error()
	}
	comp.Latency = time.Since(start)
	return comp
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}

// DBPing runs a trivial query as a connectivity probe.
func (h *HealthCheckHandler) DBPing(ctx context.Context, c *app.RequestContext) {
	var rows []map[string]interface{}
	if err := h.db.WithContext(ctx).Raw("SELECT 1 AS ok").Scan(&rows).Error; err != nil {
		respondError(ctx, c, apperrors.WrapGormError(err, apperrors.Internal(err)))
		return
	}
	c.JSON(200, utils.H{"success": true, "rows": rows})
}
