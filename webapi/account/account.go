// Package account serves the linked-account and transaction endpoints.
package account

import (
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/amirasaad/budgettracker/pkg/middleware"
	accountsvc "github.com/amirasaad/budgettracker/pkg/service/account"
	authsvc "github.com/amirasaad/budgettracker/pkg/service/auth"
	"github.com/amirasaad/budgettracker/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the account endpoints. All of them require a bearer token
// and only ever touch rows owned by the caller.
//
//   - GET   /accounts                   : list accounts
//   - POST  /accounts/:id/disconnect    : deactivate an account
//   - GET   /accounts/:id/transactions  : list an account's transactions
//   - PATCH /transactions/:id/category  : assign or clear a category
func Routes(app *fiber.App, accountSvc *accountsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/accounts", protected, ListAccounts(accountSvc, authSvc))
	app.Post("/accounts/:id/disconnect", protected, DisconnectAccount(accountSvc, authSvc))
	app.Get("/accounts/:id/transactions", protected, ListTransactions(accountSvc, authSvc))
	app.Patch("/transactions/:id/category", protected, AssignCategory(accountSvc, authSvc))
}

// ListAccounts returns a handler listing the caller's accounts.
func ListAccounts(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		accounts, err := accountSvc.ListAccounts(c.UserContext(), user.ID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		out := make([]*dto.AccountRead, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, dto.NewAccountRead(a))
		}
		return c.JSON(AccountsResponse{Accounts: out})
	}
}

// DisconnectAccount returns a handler deactivating one account.
func DisconnectAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if err := accountSvc.DisconnectAccount(c.UserContext(), user.ID, id); err != nil {
			return common.ErrorJSON(c, err)
		}
		return c.JSON(common.SuccessResponse{Success: true})
	}
}

// ListTransactions returns a handler listing an account's transactions.
func ListTransactions(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		txs, err := accountSvc.ListTransactions(c.UserContext(), user.ID, id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		out := make([]*dto.TransactionRead, 0, len(txs))
		for _, tx := range txs {
			out = append(out, dto.NewTransactionRead(tx))
		}
		return c.JSON(TransactionsResponse{Transactions: out})
	}
}

// AssignCategory returns a handler setting a transaction's category.
func AssignCategory(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CategoryRequest](c)
		if input == nil {
			return err
		}
		if err := accountSvc.AssignCategory(c.UserContext(), user.ID, id, input.CategoryID); err != nil {
			return common.ErrorJSON(c, err)
		}
		return c.JSON(common.SuccessResponse{Success: true})
	}
}
