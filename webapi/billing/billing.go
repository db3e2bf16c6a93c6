// Package billing serves the subscription endpoints.
package billing

import (
	"encoding/json"

	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/middleware"
	authsvc "github.com/amirasaad/budgettracker/pkg/service/auth"
	billingsvc "github.com/amirasaad/budgettracker/pkg/service/billing"
	"github.com/amirasaad/budgettracker/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the subscription endpoints.
//
//   - POST|GET /billing/check-subscription   : reconcile and report the caller's tier
//   - POST     /billing/update-subscription  : change the caller's plan
func Routes(app *fiber.App, billingSvc *billingsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	check := CheckSubscription(billingSvc, authSvc)
	app.Post("/billing/check-subscription", protected, check)
	app.Get("/billing/check-subscription", protected, check)
	app.Post("/billing/update-subscription", protected, UpdateSubscription(billingSvc, authSvc))
}

// CheckSubscription returns a handler reconciling the caller's tier.
func CheckSubscription(billingSvc *billingsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		state, err := billingSvc.CheckSubscription(c.UserContext(), user.ID, user.Email)
		if err != nil {
			log.Errorf("check-subscription failed for %s: %v", user.ID, err)
			return common.ErrorJSON(c, err)
		}
		return c.JSON(CheckResponse{
			Subscribed:      state.Subscribed,
			Tier:            state.Tier,
			ProductID:       state.ProductID,
			SubscriptionEnd: state.SubscriptionEnd,
		})
	}
}

// UpdateSubscription returns a handler changing the caller's plan.
func UpdateSubscription(billingSvc *billingsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[UpdateRequest](c)
		if input == nil {
			return err
		}
		change, err := billingSvc.ChangePlan(c.UserContext(), user.ID, user.Email, input.PriceID)
		if err != nil {
			log.Errorf("update-subscription failed for %s: %v", user.ID, err)
			return common.ErrorJSON(c, err)
		}
		return c.JSON(UpdateResponse{
			Success:         true,
			SubscriptionID:  change.SubscriptionID,
			ProratedAmount:  json.Number(change.ProratedAmount.StringFixed(2)),
			NextBillingDate: change.NextBillingDate,
		})
	}
}
