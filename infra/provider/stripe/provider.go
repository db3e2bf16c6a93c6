// Package stripe implements provider.Billing on the Stripe API.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/provider"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var subscriptionEvents = map[stripeapi.EventType]bool{
	"customer.subscription.created": true,
	"customer.subscription.updated": true,
	"customer.subscription.deleted": true,
}

// Provider implements provider.Billing using the Stripe client API.
type Provider struct {
	client *stripeapi.Client
	cfg    *config.Stripe
	logger *slog.Logger
}

// New creates a Stripe billing provider.
func New(cfg *config.Stripe, logger *slog.Logger) *Provider {
	return newProvider(cfg, &stripeapi.BackendConfig{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}, logger)
}

func newProvider(cfg *config.Stripe, backendCfg *stripeapi.BackendConfig, logger *slog.Logger) *Provider {
	client := stripeapi.NewClient(cfg.ApiKey, stripeapi.WithBackends(stripeapi.NewBackendsWithConfig(backendCfg)))
	return &Provider{client: client, cfg: cfg, logger: logger.With("provider", "stripe")}
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.cfg.Timeout)
}

// FindCustomerByEmail implements provider.Billing.
func (p *Provider) FindCustomerByEmail(ctx context.Context, email string) (*provider.Customer, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripeapi.CustomerListParams{Email: stripeapi.String(email)}
	params.Limit = stripeapi.Int64(1)
	for c, err := range p.client.V1Customers.List(ctx, params) {
		if err != nil {
			return nil, mapError(ctx, err)
		}
		return &provider.Customer{ID: c.ID, Email: c.Email}, nil
	}
	return nil, nil
}

// ListActiveSubscriptions implements provider.Billing.
func (p *Provider) ListActiveSubscriptions(
	ctx context.Context,
	customerID string,
	limit int64,
) ([]provider.Subscription, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripeapi.SubscriptionListParams{
		Customer: stripeapi.String(customerID),
		Status:   stripeapi.String(string(stripeapi.SubscriptionStatusActive)),
	}
	params.Limit = stripeapi.Int64(limit)

	var out []provider.Subscription
	for s, err := range p.client.V1Subscriptions.List(ctx, params) {
		if err != nil {
			return nil, mapError(ctx, err)
		}
		out = append(out, mapSubscription(s))
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

// UpdateSubscriptionPrice implements provider.Billing.
func (p *Provider) UpdateSubscriptionPrice(
	ctx context.Context,
	change provider.PriceChange,
) (*provider.Subscription, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripeapi.SubscriptionUpdateParams{
		Items: []*stripeapi.SubscriptionUpdateItemParams{{
			ID:    stripeapi.String(change.ItemID),
			Price: stripeapi.String(change.PriceID),
		}},
		ProrationBehavior:           stripeapi.String("always_invoice"),
		BillingCycleAnchorUnchanged: stripeapi.Bool(true),
	}
	params.AddExpand("items.data.price.product")
	s, err := p.client.V1Subscriptions.Update(ctx, change.SubscriptionID, params)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	out := mapSubscription(s)
	return &out, nil
}

// PreviewUpcomingInvoice implements provider.Billing.
func (p *Provider) PreviewUpcomingInvoice(
	ctx context.Context,
	customerID, subscriptionID string,
) (*provider.InvoicePreview, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripeapi.InvoiceCreatePreviewParams{Customer: stripeapi.String(customerID)}
	if subscriptionID != "" {
		params.Subscription = stripeapi.String(subscriptionID)
	}
	inv, err := p.client.V1Invoices.CreatePreview(ctx, params)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	return &provider.InvoicePreview{AmountDue: inv.AmountDue, PeriodEnd: inv.PeriodEnd}, nil
}

// ParseWebhook implements provider.Billing.
func (p *Provider) ParseWebhook(payload []byte, signature string) (*provider.SubscriptionEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.cfg.SigningSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid webhook signature: %w", domain.ErrValidation, err)
	}
	if !subscriptionEvents[event.Type] {
		p.logger.Debug("ignoring webhook event", "type", event.Type, "id", event.ID)
		return nil, nil
	}
	var s stripeapi.Subscription
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("%w: malformed subscription payload: %w", domain.ErrValidation, err)
	}
	return &provider.SubscriptionEvent{
		ID:           event.ID,
		Type:         string(event.Type),
		Subscription: mapSubscription(&s),
	}, nil
}

func mapSubscription(s *stripeapi.Subscription) provider.Subscription {
	out := provider.Subscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		TrialEnd:          s.TrialEnd,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items == nil || len(s.Items.Data) == 0 {
		return out
	}
	item := s.Items.Data[0]
	out.ItemID = item.ID
	out.CurrentPeriodEnd = item.CurrentPeriodEnd
	if item.Price != nil {
		out.PriceID = item.Price.ID
		if item.Price.Product != nil {
			out.ProductID = item.Price.Product.ID
		}
		if item.Price.Recurring != nil {
			out.Interval = string(item.Price.Recurring.Interval)
		}
	}
	return out
}

func mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %s: %s", domain.ErrUpstreamFetch, stripeErr.Code, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
}

var _ provider.Billing = (*Provider)(nil)
