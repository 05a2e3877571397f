package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"samaajseva/pkg/core/urgency"
)

// UrgencyHandler relays the prediction form to the external service.
type UrgencyHandler struct {
	client *urgency.Client
}

func NewUrgencyHandler(client *urgency.Client) *UrgencyHandler {
	return &UrgencyHandler{client: client}
}

func (h *UrgencyHandler) Schema(ctx context.Context, c *app.RequestContext) {
	resp, err := h.client.Schema(ctx)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.Data(resp.StatusCode, resp.ContentType, resp.Body)
}

func (h *UrgencyHandler) Predict(ctx context.Context, c *app.RequestContext) {
	resp, err := h.client.Predict(ctx, c.Request.Body())
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.Data(resp.StatusCode, resp.ContentType, resp.Body)
}
