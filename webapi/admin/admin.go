// Package admin serves the operator endpoints.
package admin

import (
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/amirasaad/budgettracker/pkg/middleware"
	adminsvc "github.com/amirasaad/budgettracker/pkg/service/admin"
	authsvc "github.com/amirasaad/budgettracker/pkg/service/auth"
	"github.com/amirasaad/budgettracker/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// SubscriptionsResponse lists every user with their subscription records.
type SubscriptionsResponse struct {
	Users              []*dto.AdminUser `json:"users"`
	TotalUsers         int              `json:"total_users"`
	TotalSubscriptions int              `json:"total_subscriptions"`
}

// Routes registers GET /admin/subscriptions. The caller needs the admin role.
func Routes(app *fiber.App, adminSvc *adminsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Get("/admin/subscriptions", middleware.JwtProtected(cfg.Auth.Jwt), ListSubscriptions(adminSvc, authSvc))
}

// ListSubscriptions returns a handler listing users and subscriptions.
func ListSubscriptions(adminSvc *adminsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := common.CurrentUser(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		listing, err := adminSvc.ListUsersWithSubscriptions(c.UserContext(), user.ID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return c.JSON(SubscriptionsResponse{
			Users:              listing.Users,
			TotalUsers:         listing.TotalUsers,
			TotalSubscriptions: listing.TotalSubscriptions,
		})
	}
}
