// Package notification subscribes to domain events. It raises in-app
// notifications and runs follow-up work that must not block the publisher.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/domain/notification"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/amirasaad/budgettracker/pkg/repository"
	notificationrepo "github.com/amirasaad/budgettracker/pkg/repository/notification"
	"github.com/google/uuid"
)

// Reconciler refreshes a user's billing state.
type Reconciler interface {
	ReconcileUser(ctx context.Context, userID uuid.UUID, email string) error
}

// Service holds the event subscribers.
type Service struct {
	uow        repository.UnitOfWork
	reconciler Reconciler
	logger     *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps, reconciler Reconciler) *Service {
	return &Service{
		uow:        deps.Uow,
		reconciler: reconciler,
		logger:     deps.Logger.With("service", "notification"),
	}
}

// Register subscribes every handler on bus.
func (s *Service) Register(bus eventbus.Bus) {
	bus.Register(events.EventTypeAccountsLinked, s.HandleAccountsLinked)
	bus.Register(events.EventTypeSubscriptionTierChanged, s.HandleTierChanged)
	bus.Register(events.EventTypeSessionStarted, s.HandleSessionStarted)
}

// HandleAccountsLinked tells the user how many accounts and transactions a
// link brought in.
func (s *Service) HandleAccountsLinked(ctx context.Context, e events.Event) error {
	evt, err := as[events.AccountsLinked](e)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Connected %d account(s) from %s.", evt.AccountsCount, evt.InstitutionName)
	if evt.TransactionsSynced > 0 {
		message += fmt.Sprintf(" Imported %d transaction(s).", evt.TransactionsSynced)
	} else {
		message += " Transactions will appear after the next sync."
	}
	return s.create(ctx, notification.New(
		evt.UserID,
		notification.TypeSystem,
		"Bank connected",
		message,
		map[string]any{
			"item_id":             evt.ItemID,
			"accounts_count":      evt.AccountsCount,
			"transactions_synced": evt.TransactionsSynced,
		},
	))
}

// HandleTierChanged tells the user their plan changed.
func (s *Service) HandleTierChanged(ctx context.Context, e events.Event) error {
	evt, err := as[events.SubscriptionTierChanged](e)
	if err != nil {
		return err
	}
	return s.create(ctx, notification.New(
		evt.UserID,
		notification.TypeSubscriptionUpdate,
		"Subscription updated",
		fmt.Sprintf("Your plan changed from %s to %s.", evt.Previous, evt.Tier),
		map[string]any{
			"previous": string(evt.Previous),
			"tier":     string(evt.Tier),
			"status":   string(evt.Status),
			"source":   evt.Source,
		},
	))
}

// HandleSessionStarted reconciles the billing state of a user who signed in.
func (s *Service) HandleSessionStarted(ctx context.Context, e events.Event) error {
	evt, err := as[events.SessionStarted](e)
	if err != nil {
		return err
	}
	if evt.Email == "" {
		s.logger.Debug("session without email, skipping reconciliation", "userID", evt.UserID)
		return nil
	}
	if err := s.reconciler.ReconcileUser(ctx, evt.UserID, evt.Email); err != nil {
		return fmt.Errorf("reconciling billing for %s: %w", evt.UserID, err)
	}
	return nil
}

func (s *Service) create(ctx context.Context, n notification.Notification) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Resolve[notificationrepo.Repository](uow)
		if err != nil {
			return err
		}
		return repo.Create(ctx, n)
	})
	if err != nil {
		return fmt.Errorf("creating %s notification: %w", n.Type, err)
	}
	s.logger.Debug("notification created", "userID", n.UserID, "type", n.Type)
	return nil
}

// as accepts both the value published in-process and the pointer decoded by
// the broker-backed buses.
func as[T events.Event](e events.Event) (T, error) {
	switch v := any(e).(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unexpected event %T", e)
}
