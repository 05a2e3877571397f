package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	jwth "github.com/hertz-contrib/jwt"

	"samaajseva/pkg/common/config"
	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/session"
)

// JWTAuthMiddleware 验证JWT令牌有效性, and stores the caller's
// *session.Identity under session.IdentityKey.
func JWTAuthMiddleware(cfg *config.JWTAuthConfig) app.HandlerFunc {
	authMiddleware, err := jwth.New(&jwth.HertzJWTMiddleware{
		Realm:            cfg.Issuer,
		SigningAlgorithm: cfg.SigningMethod,
		Key:              []byte(cfg.Secret),
		Timeout:          cfg.ExpireDuration,
		TokenLookup:      "header: Authorization",
		TokenHeadName:    "Bearer",
		TimeFunc:         time.Now,
		IdentityKey:      session.IdentityKey,
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			identity, ok := session.IdentityFromClaims(jwth.ExtractClaims(ctx, c))
			if !ok {
				return nil
			}
			return identity
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			identity, ok := data.(*session.Identity)
			return ok && identity != nil
		},
		Unauthorized: handleJWTError,
	})
	if err != nil {
		hlog.Fatalf("JWT middleware init failed: %v", err)
	}
	return authMiddleware.MiddlewareFunc()
}

// handleJWTError answers 401 for every rejected token. The contrib middleware
// reports a failed Authorizator as 403, but here that only means the token
// carried no usable identity.
func handleJWTError(ctx context.Context, c *app.RequestContext, code int, message string) {
	hlog.CtxInfof(ctx, "JWT rejected (code=%d) path=%s: %s", code, c.Path(), message)
	if code == http.StatusForbidden {
		message = "Authentication required."
	}
	abortWithError(c, apperrors.Unauthorized(message))
}

// RevocationMiddleware rejects tokens revoked by logout. It must run after
// JWTAuthMiddleware.
func RevocationMiddleware(denylist session.Denylist) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		identity, ok := identityOf(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		revoked, err := denylist.IsRevoked(ctx, identity.TokenID)
		if err != nil {
			hlog.CtxErrorf(ctx, "denylist lookup failed: %v", err)
			abortWithError(c, apperrors.Unavailable("Session store unavailable.", err))
			return
		}
		if revoked {
			abortUnauthorized(c)
			return
		}
		c.Next(ctx)
	}
}

// RequireRole allows only callers whose token carries one of roles.
func RequireRole(roles ...string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		identity, ok := identityOf(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next(ctx)
				return
			}
		}
		abortWithError(c, apperrors.Forbidden("This action requires role "+joinRoles(roles)+"."))
	}
}

func identityOf(c *app.RequestContext) (*session.Identity, bool) {
	v, ok := c.Get(session.IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*session.Identity)
	return identity, ok && identity != nil
}

func abortUnauthorized(c *app.RequestContext) {
	abortWithError(c, apperrors.Unauthorized("Authentication required."))
}

func abortWithError(c *app.RequestContext, err error) {
	c.AbortWithStatusJSON(apperrors.StatusOf(err), utils.H{
		"success": false,
		"message": apperrors.PublicMessage(err),
	})
}

func joinRoles(roles []string) string {
	switch len(roles) {
	case 0:
		return ""
	case 1:
		return roles[0]
	}
	out := roles[0]
	for _, r := range roles[1 : len(roles)-1] {
		out += ", " + r
	}
	return out + " or " + roles[len(roles)-1]
}
