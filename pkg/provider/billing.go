package provider

import (
	"context"
)

// Customer is a billing-provider customer.
type Customer struct {
	ID    string
	Email string
}

// Subscription is a billing-provider subscription. Only its first line item
// is represented.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            string
	ItemID            string
	PriceID           string
	ProductID         string
	Interval          string
	CurrentPeriodEnd  int64
	CancelAtPeriodEnd bool
	TrialEnd          int64
}

// InvoicePreview is the upcoming invoice of a customer.
type InvoicePreview struct {
	AmountDue int64
	PeriodEnd int64
}

// PriceChange replaces the price of a subscription's line item.
type PriceChange struct {
	SubscriptionID string
	ItemID         string
	PriceID        string
}

// SubscriptionEvent is a verified billing webhook about a subscription.
type SubscriptionEvent struct {
	ID           string
	Type         string
	Subscription Subscription
}

// Billing is the external billing provider.
type Billing interface {
	// FindCustomerByEmail returns the first customer with email, or nil.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	// ListActiveSubscriptions lists at most limit active subscriptions.
	ListActiveSubscriptions(ctx context.Context, customerID string, limit int64) ([]Subscription, error)
	// UpdateSubscriptionPrice swaps the line item's price, invoicing the
	// prorated difference immediately and keeping the billing anchor.
	UpdateSubscriptionPrice(ctx context.Context, change PriceChange) (*Subscription, error)
	// PreviewUpcomingInvoice previews the customer's next invoice.
	PreviewUpcomingInvoice(ctx context.Context, customerID, subscriptionID string) (*InvoicePreview, error)
	// ParseWebhook verifies and decodes a webhook. Events that are not about
	// subscriptions return (nil, nil).
	ParseWebhook(payload []byte, signature string) (*SubscriptionEvent, error)
}
