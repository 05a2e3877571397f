package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"samaajseva/pkg/core/dashboard"
)

type DashboardHandler struct {
	dashboards *dashboard.Service
}

func NewDashboardHandler(dashboards *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

func (h *DashboardHandler) NGO(ctx context.Context, c *app.RequestContext) {
	h.render(ctx, c, h.dashboards.NGO)
}

func (h *DashboardHandler) Donor(ctx context.Context, c *app.RequestContext) {
	h.render(ctx, c, h.dashboards.Donor)
}

func (h *DashboardHandler) Volunteer(ctx context.Context, c *app.RequestContext) {
	h.render(ctx, c, h.dashboards.Volunteer)
}

func (h *DashboardHandler) render(ctx context.Context, c *app.RequestContext, build func(context.Context, uint64) (dashboard.Report, error)) {
	id, err := parseUserID(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	report, err := build(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(200, utils.H{
		"success":        true,
		"metrics":        report.Metrics,
		"notImplemented": report.NotImplemented,
	})
}
