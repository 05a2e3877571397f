// ----------- pkg/web/handler/user_handler.go -----------
package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/session"
	"samaajseva/pkg/core/user/service"
	"samaajseva/pkg/web/model"
)

type AuthHandler struct {
	auth     *service.AuthService
	issuer   *session.Issuer
	denylist session.Denylist
}

func NewAuthHandler(auth *service.AuthService, issuer *session.Issuer, denylist session.Denylist) *AuthHandler {
	return &AuthHandler{auth: auth, issuer: issuer, denylist: denylist}
}

func (h *AuthHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req model.RegisterReq
	if err := bindBody(c, &req); err != nil {
		respondError(ctx, c, err)
		return
	}

	user, err := h.auth.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(200, utils.H{"success": true, "user": user})
}

func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req model.LoginReq
	if err := bindBody(c, &req); err != nil {
		respondError(ctx, c, err)
		return
	}

	user, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	// 生成 JWT
	token, err := h.issuer.Issue(user.ID, string(user.Role), user.Name)
	if err != nil {
		respondError(ctx, c, apperrors.Internal(err))
		return
	}

	c.JSON(200, utils.H{
		"success":    true,
		"user":       user,
		"token":      token.Value,
		"expires_at": token.ExpiresAt,
	})
}

// Logout revokes the presented token until it expires.
func (h *AuthHandler) Logout(ctx context.Context, c *app.RequestContext) {
	id, err := currentIdentity(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	if id.TokenID == "" {
		respondError(ctx, c, apperrors.Validation("Token cannot be revoked."))
		return
	}
	if err := h.denylist.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		respondError(ctx, c, apperrors.Unavailable("Session store unavailable.", err))
		return
	}
	hlog.CtxInfof(ctx, "token revoked user=%d", id.UserID)
	c.JSON(200, utils.H{"success": true})
}

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) GetProfile(ctx context.Context, c *app.RequestContext) {
	id, err := parseUserID(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	view, err := h.profiles.GetProfile(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(200, utils.H{
		"success":       true,
		"id":            view.ID,
		"name":          view.Name,
		"email":         view.Email,
		"role":          view.Role,
		"bio":           view.Bio,
		"city":          view.City,
		"skills":        view.Skills,
		"interests":     view.Interests,
		"current_badge": view.CurrentBadge,
		"cis":           view.CIS,
		"created_at":    view.CreatedAt,
	})
}

// UpdateProfile only lets callers edit their own profile.
func (h *ProfileHandler) UpdateProfile(ctx context.Context, c *app.RequestContext) {
	id, err := parseUserID(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	caller, err := currentIdentity(c)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	if caller.UserID != id {
		respondError(ctx, c, apperrors.Forbidden("You can only update your own profile."))
		return
	}

	var req model.ProfileUpdateReq
	if err := bindBody(c, &req); err != nil {
		respondError(ctx, c, err)
		return
	}

	err = h.profiles.UpdateProfile(ctx, id, service.ProfileUpdate{
		Bio:       req.Bio,
		City:      req.City,
		Skills:    req.Skills,
		Interests: req.Interests,
	})
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(200, utils.H{"success": true})
}
