// Package testutils builds a fully wired Fiber app over mocks for handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/budgettracker/infra/eventbus"
	"github.com/amirasaad/budgettracker/internal/fixtures/mocks"
	"github.com/amirasaad/budgettracker/pkg/app"
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	JwtSecret  = "test-secret"
	HookSecret = "hook-secret"
)

// Env is a wired app plus the mocks behind it.
type Env struct {
	App           *fiber.App
	Config        *config.App
	Aggregator    *mocks.MockAggregator
	Billing       *mocks.MockBilling
	Accounts      *mocks.MockAccountRepository
	Transactions  *mocks.MockTransactionRepository
	Profiles      *mocks.MockProfileRepository
	Subscriptions *mocks.MockSubscriptionRepository
	Notifications *mocks.MockNotificationRepository
	Bus           *eventbus.MemoryEventBus
}

// Config returns the configuration used by New.
func Config() *config.App {
	return &config.App{
		Env:       "test",
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: JwtSecret}, HookSecret: HookSecret},
		Cors:      &config.Cors{AllowOrigins: "*", AllowHeaders: "authorization, content-type"},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Plaid:     &config.Plaid{SyncWindowDays: 30},
		Stripe:    &config.Stripe{ProProductID: "prod_pro", PremiumProductID: "prod_premium"},
	}
}

// New builds the app with cfg, or Config() when cfg is nil. Notifications
// raised by subscribers are accepted without expectations.
func New(t *testing.T, cfg *config.App) *Env {
	t.Helper()
	if cfg == nil {
		cfg = Config()
	}
	e := &Env{
		Config:        cfg,
		Aggregator:    mocks.NewMockAggregator(t),
		Billing:       mocks.NewMockBilling(t),
		Accounts:      mocks.NewMockAccountRepository(t),
		Transactions:  mocks.NewMockTransactionRepository(t),
		Profiles:      mocks.NewMockProfileRepository(t),
		Subscriptions: mocks.NewMockSubscriptionRepository(t),
		Notifications: mocks.NewMockNotificationRepository(t),
		Bus:           eventbus.NewWithMemory(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	e.Notifications.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

	a := app.New(&config.Deps{
		Uow: mocks.NewUnitOfWork(
			e.Accounts, e.Transactions, e.Profiles, e.Subscriptions, e.Notifications,
		),
		Aggregator: e.Aggregator,
		Billing:    e.Billing,
		EventBus:   e.Bus,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:     cfg,
	})
	e.App = webapi.SetupApp(a)
	return e
}

// Token signs an HS256 access token for userID.
func Token(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JwtSecret))
	require.NoError(t, err)
	return s
}

// Request sends a request through app and decodes the JSON body into a map.
func Request(
	t *testing.T,
	app *fiber.App,
	method, path, body, token string,
	headers ...string,
) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}
