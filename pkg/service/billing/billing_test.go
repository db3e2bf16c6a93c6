package billing_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/budgettracker/infra/eventbus"
	"github.com/amirasaad/budgettracker/internal/fixtures/mocks"
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/amirasaad/budgettracker/pkg/provider"
	billingsvc "github.com/amirasaad/budgettracker/pkg/service/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	proProduct     = "prod_pro"
	premiumProduct = "prod_premium"
	legacyProduct  = "prod_legacy"
	email          = "jane@example.com"
)

type fixture struct {
	billing  *mocks.MockBilling
	profiles *mocks.MockProfileRepository
	subs     *mocks.MockSubscriptionRepository
	bus      *eventbus.MemoryEventBus
	svc      *billingsvc.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		billing:  mocks.NewMockBilling(t),
		profiles: mocks.NewMockProfileRepository(t),
		subs:     mocks.NewMockSubscriptionRepository(t),
		bus:      eventbus.NewWithMemory(slog.Default()),
	}
	f.svc = billingsvc.NewService(config.Deps{
		Uow:      mocks.NewUnitOfWork(f.profiles, f.subs),
		Billing:  f.billing,
		EventBus: f.bus,
		Logger:   slog.Default(),
		Config: &config.App{Stripe: &config.Stripe{
			ProProductID:     proProduct,
			PremiumProductID: premiumProduct,
			ProductAliases:   map[string]string{legacyProduct: "premium"},
		}},
	})
	return f
}

func activeSub(product string) provider.Subscription {
	return provider.Subscription{
		ID:               "sub_1",
		CustomerID:       "cus_1",
		Status:           "active",
		ItemID:           "si_1",
		PriceID:          "price_old",
		ProductID:        product,
		Interval:         "month",
		CurrentPeriodEnd: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Unix(),
	}
}

func TestCheckSubscription_FreeFallback(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{
			name: "no customer",
			setup: func(f *fixture) {
				f.billing.On("FindCustomerByEmail", mock.Anything, email).Return(nil, nil).Once()
			},
		},
		{
			name: "no active subscription",
			setup: func(f *fixture) {
				f.billing.On("FindCustomerByEmail", mock.Anything, email).
					Return(&provider.Customer{ID: "cus_1", Email: email}, nil).Once()
				f.billing.On("ListActiveSubscriptions", mock.Anything, "cus_1", mock.Anything).
					Return([]provider.Subscription{}, nil).Once()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			userID := uuid.New()
			tt.setup(f)
			f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierFree, billing.StatusActive).
				Return(billing.TierFree, nil).Once()

			state, err := f.svc.CheckSubscription(context.Background(), userID, email)
			require.NoError(t, err)
			assert.False(t, state.Subscribed)
			assert.Equal(t, billing.TierFree, state.Tier)
			assert.Nil(t, state.ProductID)
			assert.Nil(t, state.SubscriptionEnd)
			assert.Empty(t, f.bus.Published())
		})
	}
}

func TestCheckSubscription_Active(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	sub := activeSub(premiumProduct)

	f.billing.On("FindCustomerByEmail", mock.Anything, email).
		Return(&provider.Customer{ID: "cus_1", Email: email}, nil).Once()
	f.billing.On("ListActiveSubscriptions", mock.Anything, "cus_1", mock.Anything).
		Return([]provider.Subscription{sub}, nil).Once()
	f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierPremium, billing.StatusActive).
		Return(billing.TierFree, nil).Once()

	state, err := f.svc.CheckSubscription(context.Background(), userID, email)
	require.NoError(t, err)
	assert.True(t, state.Subscribed)
	assert.Equal(t, billing.TierPremium, state.Tier)
	require.NotNil(t, state.ProductID)
	assert.Equal(t, premiumProduct, *state.ProductID)
	require.NotNil(t, state.SubscriptionEnd)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *state.SubscriptionEnd)

	published := f.bus.Published()
	require.Len(t, published, 1)
	changed := published[0].(events.SubscriptionTierChanged)
	assert.Equal(t, billing.TierFree, changed.Previous)
	assert.Equal(t, billing.TierPremium, changed.Tier)
	assert.Equal(t, billingsvc.SourceCheck, changed.Source)
}

func TestCheckSubscription_UnknownProductAndBadPeriodEnd(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	sub := activeSub("prod_unknown")
	sub.CurrentPeriodEnd = 0

	f.billing.On("FindCustomerByEmail", mock.Anything, email).
		Return(&provider.Customer{ID: "cus_1"}, nil).Once()
	f.billing.On("ListActiveSubscriptions", mock.Anything, "cus_1", mock.Anything).
		Return([]provider.Subscription{sub, activeSub(proProduct)}, nil).Once()
	f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierFree, billing.StatusActive).
		Return(billing.TierFree, nil).Once()

	state, err := f.svc.CheckSubscription(context.Background(), userID, email)
	require.NoError(t, err)
	assert.True(t, state.Subscribed)
	assert.Equal(t, billing.TierFree, state.Tier)
	assert.Nil(t, state.SubscriptionEnd)
}

func TestCheckSubscription_Errors(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CheckSubscription(context.Background(), uuid.New(), "")
		require.ErrorIs(t, err, domain.ErrAuth)
	})
	t.Run("provider down", func(t *testing.T) {
		f := newFixture(t)
		f.billing.On("FindCustomerByEmail", mock.Anything, email).Return(nil, domain.ErrUpstreamTimeout).Once()
		_, err := f.svc.CheckSubscription(context.Background(), uuid.New(), email)
		require.ErrorIs(t, err, domain.ErrUpstreamTimeout)
	})
	t.Run("profile write fails", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		f.billing.On("FindCustomerByEmail", mock.Anything, email).Return(nil, nil).Once()
		f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierFree, billing.StatusActive).
			Return(billing.TierFree, domain.ErrPersistence).Once()
		_, err := f.svc.CheckSubscription(context.Background(), userID, email)
		require.ErrorIs(t, err, domain.ErrPersistence)
	})
}

func TestChangePlan(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	current := activeSub(proProduct)
	updated := activeSub(premiumProduct)
	updated.PriceID = "price_premium"
	nextBilling := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	f.billing.On("FindCustomerByEmail", mock.Anything, email).
		Return(&provider.Customer{ID: "cus_1"}, nil).Once()
	f.billing.On("ListActiveSubscriptions", mock.Anything, "cus_1", mock.Anything).
		Return([]provider.Subscription{current}, nil).Once()
	f.billing.On("UpdateSubscriptionPrice", mock.Anything, provider.PriceChange{
		SubscriptionID: "sub_1",
		ItemID:         "si_1",
		PriceID:        "price_premium",
	}).Return(&updated, nil).Once()
	f.billing.On("PreviewUpcomingInvoice", mock.Anything, "cus_1", "sub_1").
		Return(&provider.InvoicePreview{AmountDue: 1999, PeriodEnd: nextBilling.Unix()}, nil).Once()
	f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierPremium, billing.StatusActive).
		Return(billing.TierPro, nil).Once()
	f.subs.On("GetByStripeSubscriptionID", mock.Anything, "sub_1").Return(nil, domain.ErrNotFound).Once()
	var created billing.Subscription
	f.subs.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(billing.Subscription) }).
		Return(nil).Once()

	change, err := f.svc.ChangePlan(context.Background(), userID, email, "price_premium")
	require.NoError(t, err)
	assert.Equal(t, "sub_1", change.SubscriptionID)
	assert.True(t, change.ProratedAmount.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "19.99", change.ProratedAmount.StringFixed(2))
	require.NotNil(t, change.NextBillingDate)
	assert.Equal(t, nextBilling, *change.NextBillingDate)
	assert.Equal(t, billing.TierPremium, change.Tier)

	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, billing.TierPremium, created.Plan)
	assert.Equal(t, "cus_1", created.StripeCustomerID)
	assert.Equal(t, "sub_1", created.StripeSubscriptionID)
	assert.Equal(t, "month", created.BillingCycle)

	published := f.bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, billingsvc.SourcePlanChange, published[0].(events.SubscriptionTierChanged).Source)
}

func TestChangePlan_AliasUpdatesExistingRecord(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	updated := activeSub(legacyProduct)
	recordID := uuid.New()

	f.billing.On("FindCustomerByEmail", mock.Anything, email).
		Return(&provider.Customer{ID: "cus_1"}, nil).Once()
	f.billing.On("ListActiveSubscriptions", mock.Anything, "cus_1", mock.Anything).
		Return([]provider.Subscription{activeSub(proProduct)}, nil).Once()
	f.billing.On("UpdateSubscriptionPrice", mock.Anything, mock.Anything).Return(&updated, nil).Once()
	f.billing.On("PreviewUpcomingInvoice", mock.Anything, "cus_1", "sub_1").
		Return(&provider.InvoicePreview{AmountDue: 0}, nil).Once()
	f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierPremium, billing.StatusActive).
		Return(billing.TierPremium, nil).Once()
	f.subs.On("GetByStripeSubscriptionID", mock.Anything, "sub_1").
		Return(&billing.Subscription{ID: recordID, UserID: userID}, nil).Once()
	f.subs.On("Update", mock.Anything, recordID, mock.MatchedBy(func(u dto.SubscriptionUpdate) bool {
		return u.Plan != nil && *u.Plan == billing.TierPremium &&
			u.BillingCycle != nil && *u.BillingCycle == "month"
	})).Return(nil).Once()

	change, err := f.svc.ChangePlan(context.Background(), userID, email, "price_legacy")
	require.NoError(t, err)
	assert.Equal(t, billing.TierPremium, change.Tier)
	assert.True(t, change.ProratedAmount.IsZero())
	assert.Nil(t, change.NextBillingDate)
	assert.Empty(t, f.bus.Published(), "unchanged tier publishes nothing")
}

func TestChangePlan_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		priceID string
		setup   func(f *fixture)
		want    error
	}{
		{name: "missing price", want: domain.ErrValidation},
		{
			name:    "no customer",
			priceID: "price_premium",
			setup: func(f *fixture) {
				f.billing.On("FindCustomerByEmail", mock.Anything, email).Return(nil, nil).Once()
			},
			want: domain.ErrNoCustomer,
		},
		{
			name:    "no active subscription",
			priceID: "price_premium",
			setup: func(f *fixture) {
				f.billing.On("FindCustomerByEmail", mock.Anything, email).
					Return(&provider.Customer{ID: "cus_1"}, nil).Once()
				f.billing.On("ListActiveSubscriptions", mock.Anything, "cus_1", mock.Anything).
					Return(nil, nil).Once()
			},
			want: domain.ErrNoActiveSubscription,
		},
		{
			name:    "price update rejected",
			priceID: "price_premium",
			setup: func(f *fixture) {
				f.billing.On("FindCustomerByEmail", mock.Anything, email).
					Return(&provider.Customer{ID: "cus_1"}, nil).Once()
				f.billing.On("ListActiveSubscriptions", mock.Anything, "cus_1", mock.Anything).
					Return([]provider.Subscription{activeSub(proProduct)}, nil).Once()
				f.billing.On("UpdateSubscriptionPrice", mock.Anything, mock.Anything).
					Return(nil, domain.ErrUpstreamFetch).Once()
			},
			want: domain.ErrUpstreamFetch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.svc.ChangePlan(context.Background(), uuid.New(), email, tt.priceID)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHandleWebhook(t *testing.T) {
	payload := []byte(`{}`)

	t.Run("ignored event", func(t *testing.T) {
		f := newFixture(t)
		f.billing.On("ParseWebhook", payload, "sig").Return(nil, nil).Once()
		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
	})

	t.Run("bad signature", func(t *testing.T) {
		f := newFixture(t)
		f.billing.On("ParseWebhook", payload, "sig").Return(nil, domain.ErrValidation).Once()
		require.ErrorIs(t, f.svc.HandleWebhook(context.Background(), payload, "sig"), domain.ErrValidation)
	})

	t.Run("created matched by customer", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		sub := activeSub(proProduct)
		sub.ID = "sub_new"
		f.billing.On("ParseWebhook", payload, "sig").Return(&provider.SubscriptionEvent{
			ID: "evt_1", Type: "customer.subscription.created", Subscription: sub,
		}, nil).Once()
		f.subs.On("GetByStripeSubscriptionID", mock.Anything, "sub_new").Return(nil, domain.ErrNotFound).Twice()
		f.subs.On("GetLatestByCustomerID", mock.Anything, "cus_1").
			Return(&billing.Subscription{ID: uuid.New(), UserID: userID}, nil).Once()
		f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierPro, billing.StatusActive).
			Return(billing.TierFree, nil).Once()
		f.subs.On("Create", mock.Anything, mock.MatchedBy(func(s billing.Subscription) bool {
			return s.UserID == userID && s.StripeSubscriptionID == "sub_new" && s.Plan == billing.TierPro
		})).Return(nil).Once()

		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		require.Len(t, f.bus.Published(), 1)
	})

	t.Run("deleted downgrades to free", func(t *testing.T) {
		f := newFixture(t)
		userID, recordID := uuid.New(), uuid.New()
		sub := activeSub(premiumProduct)
		sub.Status = "canceled"
		f.billing.On("ParseWebhook", payload, "sig").Return(&provider.SubscriptionEvent{
			ID: "evt_2", Type: "customer.subscription.deleted", Subscription: sub,
		}, nil).Once()
		f.subs.On("GetByStripeSubscriptionID", mock.Anything, "sub_1").
			Return(&billing.Subscription{ID: recordID, UserID: userID}, nil).Twice()
		f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierFree, billing.StatusCanceled).
			Return(billing.TierPremium, nil).Once()
		f.subs.On("Update", mock.Anything, recordID, mock.MatchedBy(func(u dto.SubscriptionUpdate) bool {
			return *u.Status == billing.StatusCanceled && *u.Plan == billing.TierFree
		})).Return(nil).Once()

		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		published := f.bus.Published()
		require.Len(t, published, 1)
		changed := published[0].(events.SubscriptionTierChanged)
		assert.Equal(t, billing.TierPremium, changed.Previous)
		assert.Equal(t, billing.TierFree, changed.Tier)
		assert.Equal(t, billingsvc.SourceWebhook, changed.Source)
	})

	t.Run("unknown customer is acknowledged", func(t *testing.T) {
		f := newFixture(t)
		f.billing.On("ParseWebhook", payload, "sig").Return(&provider.SubscriptionEvent{
			ID: "evt_3", Type: "customer.subscription.updated", Subscription: activeSub(proProduct),
		}, nil).Once()
		f.subs.On("GetByStripeSubscriptionID", mock.Anything, "sub_1").Return(nil, domain.ErrNotFound).Once()
		f.subs.On("GetLatestByCustomerID", mock.Anything, "cus_1").Return(nil, domain.ErrNotFound).Once()

		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		f.profiles.AssertNotCalled(t, "UpsertTier", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReconcileUser(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.billing.On("FindCustomerByEmail", mock.Anything, email).Return(nil, nil).Once()
	f.profiles.On("UpsertTier", mock.Anything, userID, billing.TierFree, billing.StatusActive).
		Return(billing.TierPro, nil).Once()

	require.NoError(t, f.svc.ReconcileUser(context.Background(), userID, email))
	require.Len(t, f.bus.Published(), 1)
}
