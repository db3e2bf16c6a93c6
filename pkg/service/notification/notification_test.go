package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/budgettracker/infra/eventbus"
	"github.com/amirasaad/budgettracker/internal/fixtures/mocks"
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/domain/notification"
	notificationsvc "github.com/amirasaad/budgettracker/pkg/service/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reconcilerFunc func(ctx context.Context, userID uuid.UUID, email string) error

func (f reconcilerFunc) ReconcileUser(ctx context.Context, userID uuid.UUID, email string) error {
	return f(ctx, userID, email)
}

func newService(t *testing.T, r notificationsvc.Reconciler) (*notificationsvc.Service, *mocks.MockNotificationRepository) {
	repo := mocks.NewMockNotificationRepository(t)
	svc := notificationsvc.NewService(config.Deps{
		Uow:    mocks.NewUnitOfWork(repo),
		Logger: slog.Default(),
	}, r)
	return svc, repo
}

func TestHandleAccountsLinked(t *testing.T) {
	svc, repo := newService(t, nil)
	userID := uuid.New()
	var got notification.Notification
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(notification.Notification) }).
		Return(nil).Once()

	err := svc.HandleAccountsLinked(context.Background(), events.AccountsLinked{
		UserID: userID, ItemID: "item-1", InstitutionName: "Chase", AccountsCount: 2, TransactionsSynced: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, notification.TypeSystem, got.Type)
	assert.Contains(t, got.Message, "2 account(s) from Chase")
	assert.Contains(t, got.Message, "5 transaction(s)")
	assert.False(t, got.IsRead)
}

func TestHandleTierChanged_AcceptsDecodedPointer(t *testing.T) {
	svc, repo := newService(t, nil)
	userID := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n notification.Notification) bool {
		return n.UserID == userID && n.Type == notification.TypeSubscriptionUpdate &&
			n.Metadata["tier"] == "pro"
	})).Return(nil).Once()

	err := svc.HandleTierChanged(context.Background(), &events.SubscriptionTierChanged{
		UserID: userID, Previous: billing.TierFree, Tier: billing.TierPro, Status: billing.StatusActive,
	})
	require.NoError(t, err)
}

func TestHandlers_RejectWrongEvent(t *testing.T) {
	svc, _ := newService(t, nil)
	err := svc.HandleTierChanged(context.Background(), events.SessionStarted{})
	require.Error(t, err)
}

func TestHandleAccountsLinked_StoreError(t *testing.T) {
	svc, repo := newService(t, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	err := svc.HandleAccountsLinked(context.Background(), events.AccountsLinked{UserID: uuid.New()})
	require.ErrorContains(t, err, "db down")
}

func TestHandleSessionStarted(t *testing.T) {
	userID := uuid.New()
	calls := 0
	svc, _ := newService(t, reconcilerFunc(func(_ context.Context, id uuid.UUID, email string) error {
		calls++
		assert.Equal(t, userID, id)
		assert.Equal(t, "a@b.c", email)
		return nil
	}))

	require.NoError(t, svc.HandleSessionStarted(context.Background(), events.SessionStarted{UserID: userID, Email: "a@b.c"}))
	require.NoError(t, svc.HandleSessionStarted(context.Background(), events.SessionStarted{UserID: userID}))
	assert.Equal(t, 1, calls)
}

func TestRegister_DispatchesAsynchronously(t *testing.T) {
	bus := eventbus.NewWithMemoryAsync(slog.Default())
	defer func() { _ = bus.Close() }()

	userID := uuid.New()
	done := make(chan struct{})
	svc, _ := newService(t, reconcilerFunc(func(ctx context.Context, id uuid.UUID, _ string) error {
		defer close(done)
		assert.Equal(t, userID, id)
		return nil
	}))
	svc.Register(bus)

	require.NoError(t, bus.Emit(context.Background(), events.SessionStarted{UserID: userID, Email: "a@b.c"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session handler did not run")
	}
}
