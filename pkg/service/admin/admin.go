// Package admin provides the operator views over all users.
package admin

import (
	"context"
	"log/slog"

	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/amirasaad/budgettracker/pkg/repository"
	profilerepo "github.com/amirasaad/budgettracker/pkg/repository/profile"
	subscriptionrepo "github.com/amirasaad/budgettracker/pkg/repository/subscription"
	"github.com/google/uuid"
)

// UserListing is every profile with its subscription records.
type UserListing struct {
	Users              []*dto.AdminUser
	TotalUsers         int
	TotalSubscriptions int
}

// RoleChecker decides whether a user holds the admin role.
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service serves admin-only queries.
type Service struct {
	uow    repository.UnitOfWork
	roles  RoleChecker
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps, roles RoleChecker) *Service {
	return &Service{
		uow:    deps.Uow,
		roles:  roles,
		logger: deps.Logger.With("service", "admin"),
	}
}

// ListUsersWithSubscriptions lists every profile, newest first, each with
// its own subscription records. The caller must be an admin.
func (s *Service) ListUsersWithSubscriptions(ctx context.Context, callerID uuid.UUID) (*UserListing, error) {
	log := s.logger.With("op", "list_users", "callerID", callerID)

	ok, err := s.roles.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warn("unauthorized access attempt")
		return nil, domain.ErrForbidden
	}

	profiles, err := repository.Resolve[profilerepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	subscriptions, err := repository.Resolve[subscriptionrepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	users, err := profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := subscriptions.List(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID][]*dto.SubscriptionRead, len(users))
	for _, sub := range subs {
		byUser[sub.UserID] = append(byUser[sub.UserID], dto.NewSubscriptionRead(sub))
	}
	out := make([]*dto.AdminUser, 0, len(users))
	for _, p := range users {
		out = append(out, newAdminUser(p, byUser[p.UserID]))
	}
	log.Info("listed users", "users", len(users), "subscriptions", len(subs))

	return &UserListing{
		Users:              out,
		TotalUsers:         len(users),
		TotalSubscriptions: len(subs),
	}, nil
}

func newAdminUser(p *billing.Profile, subs []*dto.SubscriptionRead) *dto.AdminUser {
	if subs == nil {
		subs = []*dto.SubscriptionRead{}
	}
	return &dto.AdminUser{
		UserID:             p.UserID,
		Username:           p.Username,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		SubscriptionTier:   p.Tier,
		SubscriptionStatus: p.Status,
		CreatedAt:          p.CreatedAt,
		Subscriptions:      subs,
	}
}
