// Package app builds the services from their infrastructure dependencies and
// subscribes the event handlers.
package app

import (
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/service/account"
	"github.com/amirasaad/budgettracker/pkg/service/admin"
	"github.com/amirasaad/budgettracker/pkg/service/auth"
	"github.com/amirasaad/budgettracker/pkg/service/billing"
	"github.com/amirasaad/budgettracker/pkg/service/notification"
)

type App struct {
	Deps                *config.Deps
	Config              *config.App
	AuthService         *auth.Service
	AccountService      *account.Service
	BillingService      *billing.Service
	AdminService        *admin.Service
	NotificationService *notification.Service
}

func New(deps *config.Deps) *App {
	app := &App{
		Deps:           deps,
		Config:         deps.Config,
		AuthService:    auth.NewService(*deps),
		AccountService: account.NewService(*deps),
		BillingService: billing.NewService(*deps),
	}
	app.AdminService = admin.NewService(*deps, app.AuthService)
	app.NotificationService = notification.NewService(*deps, app.BillingService)
	app.setupEventBus()
	return app
}

func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	a.NotificationService.Register(a.Deps.EventBus)
}
