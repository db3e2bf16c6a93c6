package config

import (
	"log/slog"

	"github.com/amirasaad/budgettracker/pkg/cache"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/amirasaad/budgettracker/pkg/provider"
	"github.com/amirasaad/budgettracker/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow              repository.UnitOfWork
	Aggregator       provider.Aggregator
	Billing          provider.Billing
	InstitutionCache cache.InstitutionCache
	EventBus         eventbus.Bus
	Logger           *slog.Logger
	Config           *App
}
