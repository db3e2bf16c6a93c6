package plaid_test

import (
	"testing"
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/amirasaad/budgettracker/pkg/provider"
	"github.com/amirasaad/budgettracker/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateLinkToken(t *testing.T) {
	env := testutils.New(t, nil)
	userID := uuid.New()
	env.Aggregator.On("CreateLinkToken", mock.Anything, userID.String()).Return("link-sandbox-1", nil).Once()

	resp, body := testutils.Request(t, env.App, fiber.MethodPost, "/plaid/link-token", "", testutils.Token(t, userID, "a@b.c"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "link-sandbox-1", body["link_token"])
}

func TestCreateLinkToken_Unauthenticated(t *testing.T) {
	env := testutils.New(t, nil)
	resp, _ := testutils.Request(t, env.App, fiber.MethodPost, "/plaid/link-token", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = testutils.Request(t, env.App, fiber.MethodPost, "/plaid/link-token", "", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestExchangePublicToken(t *testing.T) {
	env := testutils.New(t, nil)
	userID := uuid.New()
	balance := 100.0

	env.Aggregator.On("ExchangePublicToken", mock.Anything, "public-1").
		Return(&provider.TokenExchange{AccessToken: "access-1", ItemID: "item-1"}, nil).Once()
	env.Aggregator.On("ListAccounts", mock.Anything, "access-1").Return(&provider.AccountList{
		Accounts: []account.ExternalAccount{
			{AccountID: "a1", Type: "depository", CurrentBalance: &balance},
			{AccountID: "a2", Type: "credit"},
		},
	}, nil).Once()
	env.Accounts.On("CreateMany", mock.Anything, mock.Anything).Return(nil).Once()
	env.Aggregator.On("ListTransactions", mock.Anything, "access-1", mock.Anything, mock.Anything).
		Return([]account.ExternalTransaction{
			{TransactionID: "t1", AccountID: "a1", Amount: 5, Date: time.Now()},
		}, nil).Once()
	env.Transactions.On("UpsertMany", mock.Anything, mock.Anything).Return(1, nil).Once()
	env.Accounts.On("Update", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil).Twice()

	resp, body := testutils.Request(t, env.App, fiber.MethodPost, "/plaid/exchange-public-token",
		`{"publicToken":"public-1"}`, testutils.Token(t, userID, "a@b.c"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 2, body["accounts_count"], 0)
	assert.InDelta(t, 1, body["transactions_synced"], 0)
}

func TestExchangePublicToken_Errors(t *testing.T) {
	env := testutils.New(t, nil)
	token := testutils.Token(t, uuid.New(), "a@b.c")

	resp, body := testutils.Request(t, env.App, fiber.MethodPost, "/plaid/exchange-public-token", `{}`, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "PublicToken")

	env.Aggregator.On("ExchangePublicToken", mock.Anything, "used").Return(nil, domain.ErrUpstreamExchange).Once()
	resp, body = testutils.Request(t, env.App, fiber.MethodPost, "/plaid/exchange-public-token", `{"publicToken":"used"}`, token)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, domain.ErrUpstreamExchange.Error(), body["error"])
}

func TestSyncTransactions(t *testing.T) {
	env := testutils.New(t, nil)
	userID := uuid.New()
	token := testutils.Token(t, userID, "a@b.c")
	acc := &account.Account{ID: uuid.New(), UserID: userID, PlaidAccountID: "a1"}

	resp, _ := testutils.Request(t, env.App, fiber.MethodPost, "/plaid/sync-transactions", `{"accountId":"nope"}`, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	env.Accounts.On("Get", mock.Anything, userID, acc.ID).Return(acc, nil).Once()
	resp, body := testutils.Request(t, env.App, fiber.MethodPost, "/plaid/sync-transactions",
		`{"accountId":"`+acc.ID.String()+`"}`, token)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, domain.ErrNotLinked.Error(), body["error"])

	acc.PlaidAccessToken = "access-1"
	env.Accounts.On("Get", mock.Anything, userID, acc.ID).Return(acc, nil).Once()
	env.Aggregator.On("ListTransactions", mock.Anything, "access-1", mock.Anything, mock.Anything).
		Return([]account.ExternalTransaction{{TransactionID: "t1", AccountID: "a1", Amount: 3}}, nil).Once()
	env.Transactions.On("UpsertMany", mock.Anything, mock.Anything).Return(1, nil).Once()
	env.Accounts.On("Update", mock.Anything, userID, acc.ID, mock.Anything).Return(nil).Once()

	resp, body = testutils.Request(t, env.App, fiber.MethodPost, "/plaid/sync-transactions",
		`{"accountId":"`+acc.ID.String()+`"}`, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 1, body["transactions_synced"], 0)
}
