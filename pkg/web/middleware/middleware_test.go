package middleware

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"samaajseva/pkg/common/config"
	"samaajseva/pkg/core/session"
)

func TestTokenBucketRefill(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tb := NewTokenBucket(2, time.Second)
	tb.now = func() time.Time { return now }
	tb.last = now

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// refill never exceeds capacity
	now = now.Add(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func ok(_ context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func withIdentity(role string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		c.Set(session.IdentityKey, &session.Identity{UserID: 7, Role: role, TokenID: "tok-" + role})
		c.Next(ctx)
	}
}

func TestRequireRole(t *testing.T) {
	h := server.New()
	h.GET("/ngo", withIdentity("NGO"), RequireRole("NGO"), ok)
	h.GET("/donor", withIdentity("Donor"), RequireRole("NGO"), ok)
	h.GET("/anon", RequireRole("NGO"), ok)

	assert.Equal(t, http.StatusOK, ut.PerformRequest(h.Engine, "GET", "/ngo", nil).Result().StatusCode())
	assert.Equal(t, http.StatusUnauthorized, ut.PerformRequest(h.Engine, "GET", "/anon", nil).Result().StatusCode())

	resp := ut.PerformRequest(h.Engine, "GET", "/donor", nil).Result()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
	assert.JSONEq(t, `{"success":false,"message":"This action requires role NGO."}`, string(resp.Body()))
}

func TestRevocationMiddleware(t *testing.T) {
	denylist := session.NewMemoryDenylist()
	assert.NoError(t, denylist.Revoke(context.Background(), "tok-Donor", time.Now().Add(time.Hour)))

	h := server.New()
	h.GET("/live", withIdentity("NGO"), RevocationMiddleware(denylist), ok)
	h.GET("/revoked", withIdentity("Donor"), RevocationMiddleware(denylist), ok)

	assert.Equal(t, http.StatusOK, ut.PerformRequest(h.Engine, "GET", "/live", nil).Result().StatusCode())
	assert.Equal(t, http.StatusUnauthorized, ut.PerformRequest(h.Engine, "GET", "/revoked", nil).Result().StatusCode())
}

func TestSecurityCheckMiddleware(t *testing.T) {
	h := server.New()
	h.Use(SecurityCheckMiddleware(config.SecurityConfig{
		MaxBodySize:    16,
		AllowedMethods: []string{"GET", "POST"},
	}))
	h.GET("/q", ok)
	h.POST("/q", ok)
	h.DELETE("/q", ok)

	ua := ut.Header{Key: "User-Agent", Value: "test"}

	assert.Equal(t, http.StatusBadRequest, ut.PerformRequest(h.Engine, "GET", "/q", nil).Result().StatusCode())
	assert.Equal(t, http.StatusOK, ut.PerformRequest(h.Engine, "GET", "/q", nil, ua).Result().StatusCode())
	assert.Equal(t, http.StatusUnprocessableEntity,
		ut.PerformRequest(h.Engine, "GET", "/q?x=union+select+1", nil, ua).Result().StatusCode())
	assert.Equal(t, http.StatusMethodNotAllowed, ut.PerformRequest(h.Engine, "DELETE", "/q", nil, ua).Result().StatusCode())

	big := &ut.Body{Body: strings.NewReader("this body is far longer than sixteen bytes"), Len: 42}
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		ut.PerformRequest(h.Engine, "POST", "/q", big, ua).Result().StatusCode())
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := config.Default().Middleware.JWT
	cfg.Secret = "test-secret"
	issuer, err := session.NewIssuer(cfg.Secret, cfg.Issuer, cfg.SigningMethod, time.Hour)
	assert.NoError(t, err)
	token, err := issuer.Issue(42, "Donor", "Ravi")
	assert.NoError(t, err)

	var got *session.Identity
	h := server.New()
	h.GET("/me", JWTAuthMiddleware(&cfg), func(ctx context.Context, c *app.RequestContext) {
		got, _ = identityOf(c)
		ok(ctx, c)
	})

	resp := ut.PerformRequest(h.Engine, "GET", "/me", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + token.Value}).Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	if assert.NotNil(t, got) {
		assert.Equal(t, uint64(42), got.UserID)
		assert.Equal(t, "Donor", got.Role)
		assert.Equal(t, token.ID, got.TokenID)
	}

	resp = ut.PerformRequest(h.Engine, "GET", "/me", nil).Result()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	resp = ut.PerformRequest(h.Engine, "GET", "/me", nil,
		ut.Header{Key: "Authorization", Value: "Bearer not-a-token"}).Result()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	// signed with the right key but carrying no user id
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "Donor",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(cfg.Secret))
	assert.NoError(t, err)
	got = nil
	resp = ut.PerformRequest(h.Engine, "GET", "/me", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + anonymous}).Result()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"success":false`)
	assert.Nil(t, got)
}

func TestJoinRoles(t *testing.T) {
	assert.Equal(t, "NGO", joinRoles([]string{"NGO"}))
	assert.Equal(t, "NGO or Donor", joinRoles([]string{"NGO", "Donor"}))
	assert.Equal(t, "NGO, Donor or Volunteer", joinRoles([]string{"NGO", "Donor", "Volunteer"}))
}
