// Package common holds the response and request helpers shared by the HTTP
// handlers.
package common

import (
	"errors"
	"fmt"

	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/middleware"
	authsvc "github.com/amirasaad/budgettracker/pkg/service/auth"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var validate = validator.New()

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the body of mutations that return nothing else.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorJSON writes err as {"error": message} with the status from
// ErrorToStatusCode.
func ErrorJSON(c *fiber.Ctx, err error) error {
	return c.Status(ErrorToStatusCode(err)).JSON(ErrorResponse{Error: err.Error()})
}

// ErrorToStatusCode maps domain errors to HTTP status codes. Everything that
// is not an auth or input problem is a 500.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure it writes the error response and returns nil; the handler then
// returns the second value as is.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorJSON(c, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, ErrorJSON(c, fmt.Errorf("%w: %s is %s", domain.ErrValidation, verrs[0].Field(), verrs[0].Tag()))
		}
		return nil, ErrorJSON(c, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error()))
	}
	return &input, nil
}

// CurrentUser resolves the caller from the token stored by the JWT middleware.
func CurrentUser(c *fiber.Ctx, authSvc *authsvc.Service) (*authsvc.Identity, error) {
	token, ok := c.Locals(middleware.UserKey).(*jwt.Token)
	if !ok {
		return nil, fmt.Errorf("%w: missing user context", domain.ErrAuth)
	}
	return authSvc.CurrentUser(token)
}

// ParseID reads a uuid path parameter.
func ParseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return id, nil
}
