package handler

import (
	"fmt"

	"gorm.io/gorm"

	"samaajseva/pkg/common/config"
	"samaajseva/pkg/core/dashboard"
	needdao "samaajseva/pkg/core/need/repository/dao/impl"
	needservice "samaajseva/pkg/core/need/service"
	"samaajseva/pkg/core/session"
	"samaajseva/pkg/core/urgency"
	userdao "samaajseva/pkg/core/user/repository/dao/impl"
	userservice "samaajseva/pkg/core/user/service"
)

// Handlers bundles every HTTP handler with its dependencies injected.
type Handlers struct {
	Health    *HealthCheckHandler
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Need      *NeedHandler
	Dashboard *DashboardHandler
	Urgency   *UrgencyHandler
	Denylist  session.Denylist
}

func NewHandlers(cfg *config.Config, db *gorm.DB, denylist session.Denylist) (*Handlers, error) {
	// 注入到DAO层
	users := userdao.NewGormUserRepository(db)
	needs := needdao.NewGormNeedRepository(db)

	issuer, err := session.NewIssuer(
		cfg.Middleware.JWT.Secret,
		cfg.Middleware.JWT.Issuer,
		cfg.Middleware.JWT.SigningMethod,
		cfg.Middleware.JWT.ExpireDuration,
	)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	urgencyClient, err := urgency.NewClient(cfg.Urgency.BaseURL, cfg.Urgency.Timeout)
	if err != nil {
		return nil, err
	}

	needService := needservice.NewNeedService(needs, needservice.Options{
		FulfillmentThreshold: cfg.Needs.FulfillmentThreshold,
		TitleLocale:          cfg.Needs.TitleLocale,
	})

	return &Handlers{
		Health:    NewHealthCheckHandler(db, denylist),
		Auth:      NewAuthHandler(userservice.NewAuthService(users, cfg.Auth.BcryptCost), issuer, denylist),
		Profile:   NewProfileHandler(userservice.NewProfileService(users)),
		Need:      NewNeedHandler(needService),
		Dashboard: NewDashboardHandler(dashboard.NewService(users, needs)),
		Urgency:   NewUrgencyHandler(urgencyClient),
		Denylist:  denylist,
	}, nil
}
