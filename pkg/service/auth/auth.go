// Package auth resolves the caller identity from verified bearer tokens and
// reacts to session events reported by the identity provider.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/amirasaad/budgettracker/pkg/repository"
	profilerepo "github.com/amirasaad/budgettracker/pkg/repository/profile"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated caller.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Service is the auth service.
type Service struct {
	uow      repository.UnitOfWork
	eventBus eventbus.Bus
	audience string
	logger   *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	s := &Service{
		uow:      deps.Uow,
		eventBus: deps.EventBus,
		logger:   deps.Logger.With("service", "auth"),
	}
	if deps.Config != nil && deps.Config.Auth != nil && deps.Config.Auth.Jwt != nil {
		s.audience = deps.Config.Auth.Jwt.Audience
	}
	return s
}

// CurrentUser reads the caller from a token already verified by the JWT
// middleware. The user id comes from the "sub" claim.
func (s *Service) CurrentUser(token *jwt.Token) (*Identity, error) {
	if token == nil || !token.Valid {
		return nil, domain.ErrAuth
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrAuth
	}
	if s.audience != "" {
		aud, err := claims.GetAudience()
		if err != nil || !slices.Contains(aud, s.audience) {
			s.logger.Warn("token audience rejected", "audience", aud)
			return nil, fmt.Errorf("%w: unexpected audience", domain.ErrAuth)
		}
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrAuth)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrAuth)
	}
	email, _ := claims["email"].(string)
	return &Identity{ID: id, Email: email}, nil
}

// IsAdmin reports whether userID holds the admin role.
func (s *Service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	profiles, err := repository.Resolve[profilerepo.Repository](s.uow)
	if err != nil {
		return false, err
	}
	return profiles.HasRole(ctx, userID, profilerepo.RoleAdmin)
}

// SessionStarted publishes a sign-in reported by the identity provider.
// Follow-up work runs in event subscribers, never in the caller.
func (s *Service) SessionStarted(ctx context.Context, userID uuid.UUID, email string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	s.logger.Info("session started", "userID", userID)
	return s.eventBus.Emit(ctx, events.SessionStarted{
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now().UTC(),
	})
}
