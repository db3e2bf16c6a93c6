// Package mocks holds testify mocks for the provider, repository and event
// bus contracts.
package mocks

import (
	"context"
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/amirasaad/budgettracker/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// MockAggregator is a mock of provider.Aggregator.
type MockAggregator struct {
	mock.Mock
}

// NewMockAggregator creates a MockAggregator whose expectations are asserted
// when the test ends.
func NewMockAggregator(t cleanupT) *MockAggregator {
	m := &MockAggregator{}
	track(t, &m.Mock)
	return m
}

func (m *MockAggregator) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (*provider.TokenExchange, error) {
	args := m.Called(ctx, publicToken)
	if v := args.Get(0); v != nil {
		return v.(*provider.TokenExchange), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAggregator) ListAccounts(ctx context.Context, accessToken string) (*provider.AccountList, error) {
	args := m.Called(ctx, accessToken)
	if v := args.Get(0); v != nil {
		return v.(*provider.AccountList), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAggregator) ListTransactions(
	ctx context.Context,
	accessToken string,
	start, end time.Time,
) ([]account.ExternalTransaction, error) {
	args := m.Called(ctx, accessToken, start, end)
	if v := args.Get(0); v != nil {
		return v.([]account.ExternalTransaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAggregator) LookupInstitution(ctx context.Context, institutionID string) (string, error) {
	args := m.Called(ctx, institutionID)
	return args.String(0), args.Error(1)
}

var _ provider.Aggregator = (*MockAggregator)(nil)

// MockBilling is a mock of provider.Billing.
type MockBilling struct {
	mock.Mock
}

// NewMockBilling creates a MockBilling whose expectations are asserted when
// the test ends.
func NewMockBilling(t cleanupT) *MockBilling {
	m := &MockBilling{}
	track(t, &m.Mock)
	return m
}

func (m *MockBilling) FindCustomerByEmail(ctx context.Context, email string) (*provider.Customer, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*provider.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBilling) ListActiveSubscriptions(ctx context.Context, customerID string, limit int64) ([]provider.Subscription, error) {
	args := m.Called(ctx, customerID, limit)
	if v := args.Get(0); v != nil {
		return v.([]provider.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBilling) UpdateSubscriptionPrice(ctx context.Context, change provider.PriceChange) (*provider.Subscription, error) {
	args := m.Called(ctx, change)
	if v := args.Get(0); v != nil {
		return v.(*provider.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBilling) PreviewUpcomingInvoice(ctx context.Context, customerID, subscriptionID string) (*provider.InvoicePreview, error) {
	args := m.Called(ctx, customerID, subscriptionID)
	if v := args.Get(0); v != nil {
		return v.(*provider.InvoicePreview), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBilling) ParseWebhook(payload []byte, signature string) (*provider.SubscriptionEvent, error) {
	args := m.Called(payload, signature)
	if v := args.Get(0); v != nil {
		return v.(*provider.SubscriptionEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ provider.Billing = (*MockBilling)(nil)
