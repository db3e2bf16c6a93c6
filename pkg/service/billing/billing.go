// Package billing reconciles subscription state from the billing provider
// into the profile tier and the mirrored subscription records.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/amirasaad/budgettracker/pkg/provider"
	"github.com/amirasaad/budgettracker/pkg/repository"
	profilerepo "github.com/amirasaad/budgettracker/pkg/repository/profile"
	subscriptionrepo "github.com/amirasaad/budgettracker/pkg/repository/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sources recorded on tier change events.
const (
	SourceCheck      = "check"
	SourcePlanChange = "plan_change"
	SourceWebhook    = "webhook"
)

const subscriptionDeleted = "customer.subscription.deleted"

// Only the first active subscription is used. Two are requested so that a
// customer holding several can be logged.
const activeSubscriptionProbe = 2

// SubscriptionState is the reconciled billing state of one user.
type SubscriptionState struct {
	Subscribed      bool
	Tier            billing.Tier
	ProductID       *string
	SubscriptionEnd *time.Time
}

// PlanChange is the outcome of a price change.
type PlanChange struct {
	SubscriptionID  string
	ProratedAmount  decimal.Decimal
	NextBillingDate *time.Time
	Tier            billing.Tier
}

// Service talks to the billing provider and mirrors its state locally.
type Service struct {
	uow      repository.UnitOfWork
	billing  provider.Billing
	tiers    billing.TierTable
	eventBus eventbus.Bus
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	var tiers billing.TierTable
	if deps.Config != nil && deps.Config.Stripe != nil {
		c := deps.Config.Stripe
		tiers = billing.NewTierTable(c.ProProductID, c.PremiumProductID, c.ProductAliases)
	} else {
		tiers = billing.NewTierTable("", "", nil)
	}
	return &Service{
		uow:      deps.Uow,
		billing:  deps.Billing,
		tiers:    tiers,
		eventBus: deps.EventBus,
		logger:   deps.Logger.With("service", "billing"),
		now:      time.Now,
	}
}

// CheckSubscription reads the user's active subscription from the billing
// provider and writes the resulting tier through to the profile. Users
// without a customer or an active subscription are on the free tier.
func (s *Service) CheckSubscription(
	ctx context.Context,
	userID uuid.UUID,
	email string,
) (*SubscriptionState, error) {
	log := s.logger.With("op", "check", "userID", userID)
	if email == "" {
		return nil, fmt.Errorf("%w: email not available", domain.ErrAuth)
	}

	sub, err := s.activeSubscription(ctx, log, email)
	if err != nil && !errors.Is(err, domain.ErrNoCustomer) && !errors.Is(err, domain.ErrNoActiveSubscription) {
		return nil, err
	}
	if err != nil {
		log.Info("no active subscription, user is on free plan", "reason", err)
		if err := s.writeTier(ctx, userID, billing.TierFree, billing.StatusActive, SourceCheck, nil); err != nil {
			return nil, err
		}
		return &SubscriptionState{Tier: billing.TierFree}, nil
	}

	state := &SubscriptionState{
		Subscribed: true,
		Tier:       s.tiers.Tier(sub.ProductID),
	}
	if sub.ProductID != "" {
		productID := sub.ProductID
		state.ProductID = &productID
	}
	end, ok := billing.PeriodEnd(sub.CurrentPeriodEnd)
	if !ok {
		log.Warn("invalid period end", "periodEnd", sub.CurrentPeriodEnd, "subscriptionID", sub.ID)
	}
	state.SubscriptionEnd = end

	if err := s.writeTier(ctx, userID, state.Tier, billing.StatusActive, SourceCheck, nil); err != nil {
		return nil, err
	}
	log.Info("subscription checked", "tier", state.Tier, "subscriptionID", sub.ID)
	return state, nil
}

// ReconcileUser refreshes the stored tier of a user, discarding the state.
func (s *Service) ReconcileUser(ctx context.Context, userID uuid.UUID, email string) error {
	_, err := s.CheckSubscription(ctx, userID, email)
	return err
}

// ChangePlan swaps the price of the user's active subscription. The provider
// invoices the prorated difference immediately and keeps the billing anchor.
func (s *Service) ChangePlan(
	ctx context.Context,
	userID uuid.UUID,
	email string,
	priceID string,
) (*PlanChange, error) {
	log := s.logger.With("op", "change_plan", "userID", userID, "priceID", priceID)
	if email == "" {
		return nil, fmt.Errorf("%w: email not available", domain.ErrAuth)
	}
	if priceID == "" {
		return nil, fmt.Errorf("%w: price id is required", domain.ErrValidation)
	}

	current, err := s.activeSubscription(ctx, log, email)
	if err != nil {
		return nil, err
	}
	log = log.With("subscriptionID", current.ID, "currentPriceID", current.PriceID)

	updated, err := s.billing.UpdateSubscriptionPrice(ctx, provider.PriceChange{
		SubscriptionID: current.ID,
		ItemID:         current.ItemID,
		PriceID:        priceID,
	})
	if err != nil {
		log.Error("updating subscription price failed", "error", err)
		return nil, err
	}
	log.Info("subscription updated")

	preview, err := s.billing.PreviewUpcomingInvoice(ctx, current.CustomerID, updated.ID)
	if err != nil {
		log.Error("previewing invoice failed", "error", err)
		return nil, err
	}

	tier := s.tiers.TierOrAlias(updated.ProductID)
	if updated.CustomerID == "" {
		updated.CustomerID = current.CustomerID
	}
	status := billing.StatusFromProvider(updated.Status)
	if err := s.writeTier(ctx, userID, tier, status, SourcePlanChange, updated); err != nil {
		return nil, err
	}

	next, _ := billing.PeriodEnd(preview.PeriodEnd)
	change := &PlanChange{
		SubscriptionID:  updated.ID,
		ProratedAmount:  billing.MinorUnitsToDecimal(preview.AmountDue),
		NextBillingDate: next,
		Tier:            tier,
	}
	log.Info("plan changed", "tier", tier, "prorated", change.ProratedAmount)
	return change, nil
}

// HandleWebhook verifies a billing webhook and mirrors the subscription it
// carries. The owning user is resolved from stored records by subscription
// id, then by customer id; events for unknown customers are acknowledged
// and dropped.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.billing.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}
	sub := event.Subscription
	log := s.logger.With("op", "webhook", "eventID", event.ID, "type", event.Type, "subscriptionID", sub.ID)

	userID, err := s.ownerOf(ctx, sub)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn("no user for billing customer", "customerID", sub.CustomerID)
		return nil
	}
	if err != nil {
		return err
	}

	status := billing.StatusFromProvider(sub.Status)
	if event.Type == subscriptionDeleted {
		status = billing.StatusCanceled
	}
	tier := s.tiers.TierOrAlias(sub.ProductID)
	if status == billing.StatusCanceled {
		tier = billing.TierFree
	}
	if err := s.writeTier(ctx, userID, tier, status, SourceWebhook, &sub); err != nil {
		return err
	}
	log.Info("subscription mirrored", "userID", userID, "tier", tier, "status", status)
	return nil
}

func (s *Service) ownerOf(ctx context.Context, sub provider.Subscription) (uuid.UUID, error) {
	repo, err := repository.Resolve[subscriptionrepo.Repository](s.uow)
	if err != nil {
		return uuid.Nil, err
	}
	record, err := repo.GetByStripeSubscriptionID(ctx, sub.ID)
	if errors.Is(err, domain.ErrNotFound) && sub.CustomerID != "" {
		record, err = repo.GetLatestByCustomerID(ctx, sub.CustomerID)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return record.UserID, nil
}

// activeSubscription returns the customer's first active subscription.
func (s *Service) activeSubscription(
	ctx context.Context,
	log *slog.Logger,
	email string,
) (*provider.Subscription, error) {
	customer, err := s.billing.FindCustomerByEmail(ctx, email)
	if err != nil {
		log.Error("customer lookup failed", "error", err)
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNoCustomer
	}
	log.Debug("found billing customer", "customerID", customer.ID)

	subs, err := s.billing.ListActiveSubscriptions(ctx, customer.ID, activeSubscriptionProbe)
	if err != nil {
		log.Error("listing subscriptions failed", "customerID", customer.ID, "error", err)
		return nil, err
	}
	if len(subs) == 0 {
		return nil, domain.ErrNoActiveSubscription
	}
	if len(subs) > 1 {
		log.Warn("customer has several active subscriptions, using the first", "customerID", customer.ID)
	}
	sub := subs[0]
	if sub.CustomerID == "" {
		sub.CustomerID = customer.ID
	}
	return &sub, nil
}

// writeTier stores tier and status on the profile and, when sub is given,
// mirrors it into the subscription records. Both writes share a
// transaction. A tier change is published after commit.
func (s *Service) writeTier(
	ctx context.Context,
	userID uuid.UUID,
	tier billing.Tier,
	status billing.Status,
	source string,
	sub *provider.Subscription,
) error {
	var previous billing.Tier
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		profiles, err := repository.Resolve[profilerepo.Repository](uow)
		if err != nil {
			return err
		}
		if previous, err = profiles.UpsertTier(ctx, userID, tier, status); err != nil {
			return err
		}
		if sub == nil {
			return nil
		}
		return s.mirrorSubscription(ctx, uow, userID, tier, status, sub)
	})
	if err != nil {
		s.logger.Error("writing tier failed", "userID", userID, "tier", tier, "error", err)
		return err
	}
	if previous == tier || s.eventBus == nil {
		return nil
	}
	event := events.SubscriptionTierChanged{
		UserID:    userID,
		Previous:  previous,
		Tier:      tier,
		Status:    status,
		Source:    source,
		Timestamp: s.now().UTC(),
	}
	if err := s.eventBus.Emit(ctx, event); err != nil {
		s.logger.Warn("publishing event failed", "type", event.Type(), "error", err)
	}
	return nil
}

func (s *Service) mirrorSubscription(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	tier billing.Tier,
	status billing.Status,
	sub *provider.Subscription,
) error {
	repo, err := repository.Resolve[subscriptionrepo.Repository](uow)
	if err != nil {
		return err
	}
	periodEnd, _ := billing.PeriodEnd(sub.CurrentPeriodEnd)

	existing, err := repo.GetByStripeSubscriptionID(ctx, sub.ID)
	switch {
	case err == nil:
		update := dto.SubscriptionUpdate{
			Plan:              &tier,
			Status:            &status,
			CurrentPeriodEnd:  periodEnd,
			CancelAtPeriodEnd: &sub.CancelAtPeriodEnd,
		}
		if sub.Interval != "" {
			update.BillingCycle = &sub.Interval
		}
		return repo.Update(ctx, existing.ID, update)
	case errors.Is(err, domain.ErrNotFound):
		trialEnd, _ := billing.PeriodEnd(sub.TrialEnd)
		return repo.Create(ctx, billing.Subscription{
			ID:                   uuid.New(),
			UserID:               userID,
			Plan:                 tier,
			Status:               status,
			StripeCustomerID:     sub.CustomerID,
			StripeSubscriptionID: sub.ID,
			CurrentPeriodEnd:     periodEnd,
			CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
			BillingCycle:         sub.Interval,
			TrialEnd:             trialEnd,
		})
	default:
		return err
	}
}
