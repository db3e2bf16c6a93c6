// Package provider defines the contracts for the third-party bank-data
// aggregator and billing provider.
package provider

import (
	"context"
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/account"
)

// TokenExchange is the result of exchanging a public token.
type TokenExchange struct {
	AccessToken string
	ItemID      string
}

// AccountList is the account listing of one item.
type AccountList struct {
	InstitutionID string
	Accounts      []account.ExternalAccount
}

// Aggregator is the bank-data aggregator. Implementations map transport
// failures onto domain.ErrUpstreamFetch, rejected tokens onto
// domain.ErrUpstreamExchange and deadlines onto domain.ErrUpstreamTimeout.
type Aggregator interface {
	// CreateLinkToken opens a link session for userID.
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	// ExchangePublicToken trades a single-use public token for a durable access token.
	ExchangePublicToken(ctx context.Context, publicToken string) (*TokenExchange, error)
	// ListAccounts lists the accounts of the item behind accessToken.
	ListAccounts(ctx context.Context, accessToken string) (*AccountList, error)
	// ListTransactions lists the item's transactions dated within [start, end].
	// Results may span every account of the item.
	ListTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]account.ExternalTransaction, error)
	// LookupInstitution resolves an institution display name.
	LookupInstitution(ctx context.Context, institutionID string) (string, error)
}
