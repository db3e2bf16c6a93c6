package subscription

import (
	"context"

	"github.com/amirasaad/budgettracker/infra/repository/dberr"
	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/dto"
	repo "github.com/amirasaad/budgettracker/pkg/repository/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a subscription repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements subscription.Repository.
func (r *repository) Create(
	ctx context.Context,
	sub billing.Subscription,
) error {
	m := mapDomainToModel(&sub)
	return dberr.Write("insert subscription", r.db.WithContext(ctx).Create(&m).Error)
}

// Update implements subscription.Repository.
func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.SubscriptionUpdate,
) error {
	updates := mapUpdateDTOToModel(update)
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(
		ctx,
	).Model(
		&Subscription{},
	).Where(
		"id = ?",
		id,
	).Updates(
		updates,
	).Error
	return dberr.Write("update subscription", err)
}

// GetByStripeSubscriptionID implements subscription.Repository.
func (r *repository) GetByStripeSubscriptionID(
	ctx context.Context,
	stripeSubscriptionID string,
) (*billing.Subscription, error) {
	var m Subscription
	if err := r.db.WithContext(
		ctx,
	).Where(
		"stripe_subscription_id = ?",
		stripeSubscriptionID,
	).First(
		&m,
	).Error; err != nil {
		return nil, dberr.Map(err)
	}
	return mapModelToDomain(&m), nil
}

// GetLatestByCustomerID implements subscription.Repository.
func (r *repository) GetLatestByCustomerID(
	ctx context.Context,
	customerID string,
) (*billing.Subscription, error) {
	var m Subscription
	if err := r.db.WithContext(
		ctx,
	).Where(
		"stripe_customer_id = ?",
		customerID,
	).Order(
		"created_at DESC",
	).First(
		&m,
	).Error; err != nil {
		return nil, dberr.Map(err)
	}
	return mapModelToDomain(&m), nil
}

// List implements subscription.Repository.
func (r *repository) List(
	ctx context.Context,
) ([]*billing.Subscription, error) {
	var models []Subscription
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, dberr.Map(err)
	}
	result := make([]*billing.Subscription, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

// --- Mappers ---

func mapDomainToModel(s *billing.Subscription) Subscription {
	return Subscription{
		ID:                   s.ID,
		UserID:               s.UserID,
		Plan:                 string(s.Plan),
		Status:               string(s.Status),
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		BillingCycle:         s.BillingCycle,
		TrialEnd:             s.TrialEnd,
	}
}

func mapUpdateDTOToModel(update dto.SubscriptionUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Plan != nil {
		updates["plan"] = string(*update.Plan)
	}
	if update.Status != nil {
		updates["status"] = string(*update.Status)
	}
	if update.CurrentPeriodEnd != nil {
		updates["current_period_end"] = *update.CurrentPeriodEnd
	}
	if update.CancelAtPeriodEnd != nil {
		updates["cancel_at_period_end"] = *update.CancelAtPeriodEnd
	}
	if update.BillingCycle != nil {
		updates["billing_cycle"] = *update.BillingCycle
	}
	return updates
}

func mapModelToDomain(m *Subscription) *billing.Subscription {
	return &billing.Subscription{
		ID:                   m.ID,
		UserID:               m.UserID,
		Plan:                 billing.Tier(m.Plan),
		Status:               billing.Status(m.Status),
		StripeCustomerID:     m.StripeCustomerID,
		StripeSubscriptionID: m.StripeSubscriptionID,
		CurrentPeriodEnd:     m.CurrentPeriodEnd,
		CancelAtPeriodEnd:    m.CancelAtPeriodEnd,
		BillingCycle:         m.BillingCycle,
		TrialEnd:             m.TrialEnd,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
