package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/need/service"
	"samaajseva/pkg/web/model"
)

type NeedHandler struct {
	needs *service.NeedService
}

func NewNeedHandler(needs *service.NeedService) *NeedHandler {
	return &NeedHandler{needs: needs}
}

// PostNeed creates a need owned by the authenticated NGO.
func (h *NeedHandler) PostNeed(ctx context.Context, c *app.RequestContext) {
	id, err := currentIdentity(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	var req model.PostNeedReq
	if err := bindBody(c, &req); err != nil {
		respondError(ctx, c, err)
		return
	}
	domain := req.Domain
	if domain == "" {
		domain = req.Category
	}
	peopleAffected, err := model.ParseCount("peopleAffected", req.PeopleAffected)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	need, err := h.needs.PostNeed(ctx, service.PostNeedInput{
		Title:          req.Title,
		Domain:         domain,
		State:          req.State,
		District:       req.District,
		LocalArea:      req.LocalArea,
		PeopleAffected: peopleAffected,
		ResourceType:   req.ResourceType,
		UrgencyReason:  req.UrgencyReason,
		Timeline:       req.Timeline,
		Description:    req.Description,
	}, id.UserID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(201, utils.H{"success": true, "need": model.NewNeedRes(need)})
}

// ListNeeds supports ?domain=&sort=priority|date|title&ngo_id=&open=true.
func (h *NeedHandler) ListNeeds(ctx context.Context, c *app.RequestContext) {
	q := service.ListQuery{
		Domain:   c.Query("domain"),
		Sort:     c.Query("sort"),
		OpenOnly: queryBool(c, "open", false),
	}
	if raw := c.Query("ngo_id"); raw != "" {
		ngoID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || ngoID == 0 {
			respondError(ctx, c, apperrors.Validation("Invalid ngo id."))
			return
		}
		q.NGOID = ngoID
	}

	needs, err := h.needs.ListNeeds(ctx, q)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(200, utils.H{"success": true, "needs": model.NewNeedResList(needs)})
}

func (h *NeedHandler) GetNeed(ctx context.Context, c *app.RequestContext) {
	need, err := h.needs.GetNeed(ctx, c.Param("id"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(200, utils.H{"success": true, "need": model.NewNeedRes(need)})
}

// Commit pledges the authenticated donor to the need in the path.
func (h *NeedHandler) Commit(ctx context.Context, c *app.RequestContext) {
	id, err := currentIdentity(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	var req model.CommitReq
	if err := bindBody(c, &req); err != nil {
		respondError(ctx, c, err)
		return
	}

	need, err := h.needs.CommitToNeed(ctx, c.Param("id"), id.UserID, req.Quantity)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(200, utils.H{"success": true, "need": model.NewNeedRes(need)})
}

// MyCommitments lists the need ids the caller committed to.
func (h *NeedHandler) MyCommitments(ctx context.Context, c *app.RequestContext) {
	id, err := currentIdentity(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	ids, err := h.needs.DonorCommitments(ctx, id.UserID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(200, utils.H{"success": true, "needIds": ids})
}
