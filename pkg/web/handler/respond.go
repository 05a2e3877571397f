package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/session"
)

// 统一错误响应方法
func respondError(ctx context.Context, c *app.RequestContext, err error) {
	status := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		hlog.CtxErrorf(ctx, "%s %s failed: %v", c.Method(), c.Path(), err)
		_ = c.Error(err)
	} else {
		hlog.CtxDebugf(ctx, "%s %s rejected: %v", c.Method(), c.Path(), err)
	}
	c.JSON(status, utils.H{
		"success": false,
		"message": apperrors.PublicMessage(err),
	})
}

func parseUserID(c *app.RequestContext) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid user id.")
	}
	return id, nil
}

// bindBody tolerates an empty body, which leaves req at its zero value.
func bindBody(c *app.RequestContext, req interface{}) error {
	if len(c.Request.Body()) == 0 {
		return nil
	}
	if err := c.BindAndValidate(req); err != nil {
		return apperrors.Validation("Malformed request body.")
	}
	return nil
}

func currentIdentity(c *app.RequestContext) (*session.Identity, error) {
	v, ok := c.Get(session.IdentityKey)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required.")
	}
	id, ok := v.(*session.Identity)
	if !ok || id == nil {
		return nil, apperrors.Unauthorized("Authentication required.")
	}
	return id, nil
}

func queryBool(c *app.RequestContext, key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(c.Query(key)))
	switch v {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}
