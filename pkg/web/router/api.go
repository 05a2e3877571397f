package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"samaajseva/pkg/common/config"
	"samaajseva/pkg/core/user/model"
	"samaajseva/pkg/web/handler"
	"samaajseva/pkg/web/middleware"
)

// RegisterAPIs 注册所有API路由
func RegisterAPIs(h *server.Hertz, cfg *config.Config, hs *handler.Handlers) {
	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		),
	)

	// 需要身份认证的接口共用
	authed := []app.HandlerFunc{
		middleware.JWTAuthMiddleware(&cfg.Middleware.JWT),
		middleware.RevocationMiddleware(hs.Denylist),
	}
	withAuth := func(extra ...app.HandlerFunc) []app.HandlerFunc {
		chain := make([]app.HandlerFunc, 0, len(authed)+len(extra))
		chain = append(chain, authed...)
		return append(chain, extra...)
	}

	// 基础接口组
	h.GET("/health", hs.Health.AdvancedHealthCheck)

	api := h.Group("/api")
	{
		api.GET("/health", hs.Health.AdvancedHealthCheck)
		api.GET("/db/ping", hs.Health.DBPing)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", hs.Auth.Register)
			authGroup.POST("/login", hs.Auth.Login)
			authGroup.POST("/logout", withAuth(hs.Auth.Logout)...)
		}

		profileGroup := api.Group("/profile")
		{
			profileGroup.GET("/:id", hs.Profile.GetProfile)
			profileGroup.PUT("/update/:id", withAuth(hs.Profile.UpdateProfile)...)
		}

		dashboardGroup := api.Group("/dashboard")
		{
			dashboardGroup.GET("/volunteer/:id", hs.Dashboard.Volunteer)
			dashboardGroup.GET("/ngo/:id", hs.Dashboard.NGO)
			dashboardGroup.GET("/donor/:id", hs.Dashboard.Donor)
		}

		needGroup := api.Group("/needs")
		{
			needGroup.GET("", hs.Need.ListNeeds)
			needGroup.POST("", withAuth(
				middleware.RequireRole(string(model.RoleNGO)),
				hs.Need.PostNeed,
			)...)
			needGroup.GET("/:id", hs.Need.GetNeed)
			needGroup.POST("/:id/commit", withAuth(
				middleware.RequireRole(string(model.RoleDonor)),
				hs.Need.Commit,
			)...)
		}

		api.GET("/commitments/me", withAuth(hs.Need.MyCommitments)...)

		// 紧急度预测服务代理
		api.GET("/urgency/schema", hs.Urgency.Schema)
		api.POST("/predict_urgency", hs.Urgency.Predict)
	}
}
