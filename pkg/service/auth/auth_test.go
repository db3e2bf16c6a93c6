package auth_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/budgettracker/infra/eventbus"
	"github.com/amirasaad/budgettracker/internal/fixtures/mocks"
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	profilerepo "github.com/amirasaad/budgettracker/pkg/repository/profile"
	"github.com/amirasaad/budgettracker/pkg/service/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, audience string) (*auth.Service, *mocks.MockProfileRepository, *eventbus.MemoryEventBus) {
	profiles := mocks.NewMockProfileRepository(t)
	bus := eventbus.NewWithMemory(slog.Default())
	svc := auth.NewService(config.Deps{
		Uow:      mocks.NewUnitOfWork(profiles),
		EventBus: bus,
		Logger:   slog.Default(),
		Config:   &config.App{Auth: &config.Auth{Jwt: &config.Jwt{Secret: "s", Audience: audience}}},
	})
	return svc, profiles, bus
}

func token(claims jwt.MapClaims) *jwt.Token {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok.Valid = true
	return tok
}

func TestCurrentUser(t *testing.T) {
	svc, _, _ := newService(t, "authenticated")
	userID := uuid.New()

	tests := []struct {
		name    string
		token   *jwt.Token
		wantErr bool
	}{
		{"valid", token(jwt.MapClaims{"sub": userID.String(), "email": "a@b.c", "aud": "authenticated"}), false},
		{"nil token", nil, true},
		{"not verified", &jwt.Token{Claims: jwt.MapClaims{"sub": userID.String()}}, true},
		{"missing subject", token(jwt.MapClaims{"aud": "authenticated"}), true},
		{"subject not a uuid", token(jwt.MapClaims{"sub": "user-1", "aud": "authenticated"}), true},
		{"wrong audience", token(jwt.MapClaims{"sub": userID.String(), "aud": "anon"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := svc.CurrentUser(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrAuth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, id.ID)
			assert.Equal(t, "a@b.c", id.Email)
		})
	}
}

func TestCurrentUser_NoAudienceConfigured(t *testing.T) {
	svc, _, _ := newService(t, "")
	userID := uuid.New()
	id, err := svc.CurrentUser(token(jwt.MapClaims{"sub": userID.String()}))
	require.NoError(t, err)
	assert.Equal(t, userID, id.ID)
	assert.Empty(t, id.Email)
}

func TestIsAdmin(t *testing.T) {
	svc, profiles, _ := newService(t, "")
	userID := uuid.New()
	profiles.On("HasRole", mock.Anything, userID, profilerepo.RoleAdmin).Return(true, nil).Once()

	ok, err := svc.IsAdmin(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionStarted(t *testing.T) {
	svc, _, bus := newService(t, "")
	userID := uuid.New()

	require.NoError(t, svc.SessionStarted(context.Background(), userID, "a@b.c"))
	published := bus.Published()
	require.Len(t, published, 1)
	started := published[0].(events.SessionStarted)
	assert.Equal(t, userID, started.UserID)
	assert.Equal(t, "a@b.c", started.Email)

	require.ErrorIs(t, svc.SessionStarted(context.Background(), uuid.Nil, ""), domain.ErrValidation)
}
