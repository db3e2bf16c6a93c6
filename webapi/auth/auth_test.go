package auth_test

import (
	"testing"

	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	authweb "github.com/amirasaad/budgettracker/webapi/auth"
	"github.com/amirasaad/budgettracker/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionHook(t *testing.T) {
	env := testutils.New(t, nil)
	userID := uuid.New()
	body := `{"type":"SIGNED_IN","user_id":"` + userID.String() + `","email":"a@b.c"}`

	resp, _ := testutils.Request(t, env.App, fiber.MethodPost, "/auth/hooks/session", body, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = testutils.Request(t, env.App, fiber.MethodPost, "/auth/hooks/session", body, "",
		authweb.HookSecretHeader, "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// The in-memory test bus dispatches inline, so the reconciliation runs here.
	env.Billing.On("FindCustomerByEmail", mock.Anything, "a@b.c").Return(nil, nil).Once()
	env.Profiles.On("UpsertTier", mock.Anything, userID, billing.TierFree, billing.StatusActive).
		Return(billing.TierFree, nil).Once()

	resp, out := testutils.Request(t, env.App, fiber.MethodPost, "/auth/hooks/session", body, "",
		authweb.HookSecretHeader, testutils.HookSecret)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, true, out["accepted"])

	published := env.Bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTypeSessionStarted.String(), published[0].Type())
}

func TestSessionHook_OtherEventsIgnored(t *testing.T) {
	env := testutils.New(t, nil)
	body := `{"type":"TOKEN_REFRESHED","user_id":"` + uuid.NewString() + `"}`

	resp, out := testutils.Request(t, env.App, fiber.MethodPost, "/auth/hooks/session", body, "",
		authweb.HookSecretHeader, testutils.HookSecret)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, false, out["accepted"])
	assert.Empty(t, env.Bus.Published())
}
