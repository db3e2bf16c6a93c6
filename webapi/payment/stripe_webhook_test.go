package payment_test

import (
	"testing"

	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStripeWebhook(t *testing.T) {
	env := testutils.New(t, nil)
	payload := `{"id":"evt_1","type":"invoice.paid"}`

	resp, _ := testutils.Request(t, env.App, fiber.MethodPost, "/stripe/webhooks", payload, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "missing signature")

	env.Billing.On("ParseWebhook", []byte(payload), "t=1,v1=bad").Return(nil, domain.ErrValidation).Once()
	resp, _ = testutils.Request(t, env.App, fiber.MethodPost, "/stripe/webhooks", payload, "", "Stripe-Signature", "t=1,v1=bad")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	env.Billing.On("ParseWebhook", []byte(payload), "t=1,v1=good").Return(nil, nil).Once()
	resp, body := testutils.Request(t, env.App, fiber.MethodPost, "/stripe/webhooks", payload, "", "Stripe-Signature", "t=1,v1=good")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["received"])

	env.Billing.AssertCalled(t, "ParseWebhook", mock.Anything, "t=1,v1=good")
}
