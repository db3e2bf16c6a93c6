// Package plaid serves the bank-link endpoints.
package plaid

import (
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/middleware"
	accountsvc "github.com/amirasaad/budgettracker/pkg/service/account"
	authsvc "github.com/amirasaad/budgettracker/pkg/service/auth"
	"github.com/amirasaad/budgettracker/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the bank-link endpoints. All of them require a bearer token.
//
//   - POST /plaid/link-token             : open a link session
//   - POST /plaid/exchange-public-token  : link accounts and ingest recent transactions
//   - POST /plaid/sync-transactions      : re-sync one account
func Routes(app *fiber.App, accountSvc *accountsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/plaid/link-token", protected, CreateLinkToken(accountSvc, authSvc))
	app.Post("/plaid/exchange-public-token", protected, ExchangePublicToken(accountSvc, authSvc))
	app.Post("/plaid/sync-transactions", protected, SyncTransactions(accountSvc, authSvc))
}

// CreateLinkToken returns a handler that opens a link session for the caller.
func CreateLinkToken(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		token, err := accountSvc.CreateLinkSession(c.UserContext(), user.ID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return c.JSON(LinkTokenResponse{LinkToken: token})
	}
}

// ExchangePublicToken returns a handler that links the accounts behind a
// public token and ingests their recent transactions.
func ExchangePublicToken(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[ExchangeRequest](c)
		if input == nil {
			return err
		}
		res, err := accountSvc.LinkAccounts(c.UserContext(), user.ID, input.PublicToken)
		if err != nil {
			log.Errorf("link failed for %s: %v", user.ID, err)
			return common.ErrorJSON(c, err)
		}
		return c.JSON(ExchangeResponse{
			Success:            true,
			AccountsCount:      res.AccountsCount,
			TransactionsSynced: res.TransactionsSynced,
		})
	}
}

// SyncTransactions returns a handler that re-syncs one of the caller's accounts.
func SyncTransactions(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[SyncRequest](c)
		if input == nil {
			return err
		}
		n, err := accountSvc.SyncAccount(c.UserContext(), user.ID, uuid.MustParse(input.AccountID))
		if err != nil {
			log.Errorf("sync failed for %s: %v", input.AccountID, err)
			return common.ErrorJSON(c, err)
		}
		return c.JSON(SyncResponse{Success: true, TransactionsSynced: n})
	}
}
