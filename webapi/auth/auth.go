// Package auth receives session events from the identity provider.
package auth

import (
	"crypto/subtle"

	"github.com/amirasaad/budgettracker/pkg/config"
	authsvc "github.com/amirasaad/budgettracker/pkg/service/auth"
	"github.com/amirasaad/budgettracker/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// HookSecretHeader carries the shared secret configured on the identity provider.
const HookSecretHeader = "X-Hook-Secret"

const eventSignedIn = "SIGNED_IN"

// SessionEvent is the body posted by the identity provider.
type SessionEvent struct {
	Type   string    `json:"type" validate:"required"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Routes registers POST /auth/hooks/session.
func Routes(app *fiber.App, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/auth/hooks/session", SessionHook(authSvc, cfg.Auth.HookSecret))
}

// SessionHook returns a handler that accepts session events and answers 202
// once they are queued. Work triggered by a sign-in runs on the event bus.
func SessionHook(authSvc *authsvc.Service, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(HookSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(common.ErrorResponse{Error: "invalid hook secret"})
		}
		input, err := common.BindAndValidate[SessionEvent](c)
		if input == nil {
			return err
		}
		if input.Type != eventSignedIn {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": false})
		}
		if err := authSvc.SessionStarted(c.UserContext(), input.UserID, input.Email); err != nil {
			log.Errorf("session hook failed for %s: %v", input.UserID, err)
			return common.ErrorJSON(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": true})
	}
}
