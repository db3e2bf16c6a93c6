package mocks

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/domain/notification"
	"github.com/amirasaad/budgettracker/pkg/dto"
	accountrepo "github.com/amirasaad/budgettracker/pkg/repository/account"
	notificationrepo "github.com/amirasaad/budgettracker/pkg/repository/notification"
	profilerepo "github.com/amirasaad/budgettracker/pkg/repository/profile"
	subscriptionrepo "github.com/amirasaad/budgettracker/pkg/repository/subscription"
	transactionrepo "github.com/amirasaad/budgettracker/pkg/repository/transaction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type cleanupT interface {
	mock.TestingT
	Cleanup(func())
}

func track(t cleanupT, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockAccountRepository is a mock of account.Repository.
type MockAccountRepository struct {
	mock.Mock
}

func NewMockAccountRepository(t cleanupT) *MockAccountRepository {
	m := &MockAccountRepository{}
	track(t, &m.Mock)
	return m
}

func (m *MockAccountRepository) CreateMany(ctx context.Context, accounts []account.Account) error {
	return m.Called(ctx, accounts).Error(0)
}

func (m *MockAccountRepository) Get(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, userID, id)
	if v := args.Get(0); v != nil {
		return v.(*account.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*account.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, userID, id uuid.UUID, update dto.AccountUpdate) error {
	return m.Called(ctx, userID, id, update).Error(0)
}

var _ accountrepo.Repository = (*MockAccountRepository)(nil)

// MockTransactionRepository is a mock of transaction.Repository.
type MockTransactionRepository struct {
	mock.Mock
}

func NewMockTransactionRepository(t cleanupT) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	track(t, &m.Mock)
	return m
}

func (m *MockTransactionRepository) UpsertMany(ctx context.Context, txs []account.Transaction) (int, error) {
	args := m.Called(ctx, txs)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*account.Transaction, error) {
	args := m.Called(ctx, userID, accountID)
	if v := args.Get(0); v != nil {
		return v.([]*account.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) SetCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) error {
	return m.Called(ctx, userID, id, categoryID).Error(0)
}

var _ transactionrepo.Repository = (*MockTransactionRepository)(nil)

// MockProfileRepository is a mock of profile.Repository.
type MockProfileRepository struct {
	mock.Mock
}

func NewMockProfileRepository(t cleanupT) *MockProfileRepository {
	m := &MockProfileRepository{}
	track(t, &m.Mock)
	return m
}

func (m *MockProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*billing.Profile, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*billing.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) UpsertTier(
	ctx context.Context,
	userID uuid.UUID,
	tier billing.Tier,
	status billing.Status,
) (billing.Tier, error) {
	args := m.Called(ctx, userID, tier, status)
	return args.Get(0).(billing.Tier), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context) ([]*billing.Profile, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*billing.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

var _ profilerepo.Repository = (*MockProfileRepository)(nil)

// MockSubscriptionRepository is a mock of subscription.Repository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func NewMockSubscriptionRepository(t cleanupT) *MockSubscriptionRepository {
	m := &MockSubscriptionRepository{}
	track(t, &m.Mock)
	return m
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub billing.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, id uuid.UUID, update dto.SubscriptionUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *MockSubscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, id string) (*billing.Subscription, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*billing.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) GetLatestByCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if v := args.Get(0); v != nil {
		return v.(*billing.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) List(ctx context.Context) ([]*billing.Subscription, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*billing.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ subscriptionrepo.Repository = (*MockSubscriptionRepository)(nil)

// MockNotificationRepository is a mock of notification.Repository.
type MockNotificationRepository struct {
	mock.Mock
}

func NewMockNotificationRepository(t cleanupT) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	track(t, &m.Mock)
	return m
}

func (m *MockNotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

var _ notificationrepo.Repository = (*MockNotificationRepository)(nil)
