// Package payment receives billing-provider webhooks.
package payment

import (
	billingsvc "github.com/amirasaad/budgettracker/pkg/service/billing"
	"github.com/amirasaad/budgettracker/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// StripeWebhookHandler verifies and applies a Stripe webhook. Verification
// failures answer 400 so that Stripe does not retry them; storage failures
// answer 500 so that it does.
func StripeWebhookHandler(billingSvc *billingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("Stripe-Signature")
		if signature == "" {
			return c.Status(fiber.StatusBadRequest).JSON(common.ErrorResponse{Error: "Missing Stripe-Signature header"})
		}
		payload := c.Body()
		if len(payload) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(common.ErrorResponse{Error: "Empty request body"})
		}
		if err := billingSvc.HandleWebhook(c.UserContext(), payload, signature); err != nil {
			log.Errorf("stripe webhook failed: %v", err)
			return common.ErrorJSON(c, err)
		}
		return c.JSON(fiber.Map{"received": true})
	}
}

// Routes registers POST /stripe/webhooks. It is authenticated by signature,
// not by bearer token.
func Routes(app *fiber.App, billingSvc *billingsvc.Service) {
	app.Post("/stripe/webhooks", StripeWebhookHandler(billingSvc))
}

