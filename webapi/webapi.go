// Package webapi provides the HTTP surface of the budget tracker.
// It is organized into sub-packages per area:
// - plaid: bank link and sync endpoints
// - account: linked accounts and transactions
// - billing: subscription status and plan changes
// - admin: operator listings
// - payment: Stripe webhooks
// - auth: identity provider session hooks
package webapi

import (
	"errors"

	"github.com/amirasaad/budgettracker/pkg/app"
	accountweb "github.com/amirasaad/budgettracker/webapi/account"
	adminweb "github.com/amirasaad/budgettracker/webapi/admin"
	authweb "github.com/amirasaad/budgettracker/webapi/auth"
	billingweb "github.com/amirasaad/budgettracker/webapi/billing"
	"github.com/amirasaad/budgettracker/webapi/common"
	"github.com/amirasaad/budgettracker/webapi/payment"
	plaidweb "github.com/amirasaad/budgettracker/webapi/plaid"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberConfig := fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(common.ErrorResponse{Error: fe.Message})
			}
			return common.ErrorJSON(c, err)
		},
	}
	// The client address comes from X-Forwarded-For only on requests whose
	// peer is a configured proxy.
	if cfg.Server != nil && len(cfg.Server.TrustedProxies) > 0 {
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedFor
		fiberConfig.EnableTrustedProxyCheck = true
		fiberConfig.TrustedProxies = cfg.Server.TrustedProxies
		fiberConfig.EnableIPValidation = true
	}
	fiberApp := fiber.New(fiberConfig)

	fiberApp.Use(recover.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowHeaders: cfg.Cors.AllowHeaders,
	}))

	// Keyed on c.IP(), which honors X-Forwarded-For only from trusted proxies.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		Next: func(c *fiber.Ctx) bool {
			// Stripe retries on its own schedule.
			return c.Path() == "/stripe/webhooks"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(common.ErrorResponse{Error: "rate limit exceeded"})
		},
	}))
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Budget Tracker API is running! 🚀")
	})

	plaidweb.Routes(fiberApp, a.AccountService, a.AuthService, cfg)
	accountweb.Routes(fiberApp, a.AccountService, a.AuthService, cfg)
	billingweb.Routes(fiberApp, a.BillingService, a.AuthService, cfg)
	adminweb.Routes(fiberApp, a.AdminService, a.AuthService, cfg)
	payment.Routes(fiberApp, a.BillingService)
	authweb.Routes(fiberApp, a.AuthService, cfg)
	return fiberApp
}
