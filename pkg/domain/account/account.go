// Package account holds the linked bank account and transaction entities and
// the pure mapping from aggregator shapes into them.
package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the internal account-type tag.
type Type string

const (
	TypeChecking   Type = "checking"
	TypeSavings    Type = "savings"
	TypeCredit     Type = "credit"
	TypeInvestment Type = "investment"
	TypeLoan       Type = "loan"
	TypeOther      Type = "other"
)

// SyncStatus records whether the trailing transaction ingest for an account
// has completed.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

const (
	DefaultCurrency    = "USD"
	UnknownInstitution = "Unknown Institution"
)

// Account is one bank account linked by a user. Balance is a snapshot that is
// overwritten on every sync, never accumulated.
type Account struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	PlaidAccountID   string
	PlaidItemID      string
	PlaidAccessToken string
	InstitutionName  string
	InstitutionID    string
	Type             Type
	Balance          decimal.Decimal
	Currency         string
	MaskedNumber     string
	CustomName       string
	IsActive         bool
	SyncStatus       SyncStatus
	LastSyncedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLinked reports whether the account carries an aggregator access credential.
// Manually added accounts do not and cannot be synced.
func (a *Account) IsLinked() bool {
	return a.PlaidAccessToken != ""
}

// Link carries the item-level data shared by every account of one link flow.
type Link struct {
	AccessToken     string
	ItemID          string
	InstitutionID   string
	InstitutionName string
}

// ExternalAccount is an account as reported by the aggregator.
type ExternalAccount struct {
	AccountID       string
	Type            string
	Subtype         string
	Name            string
	Mask            string
	CurrentBalance  *float64
	ISOCurrencyCode string
}

// NewAccountFromExternal maps an aggregator account into a new pending account
// owned by userID.
func NewAccountFromExternal(userID uuid.UUID, link Link, ext ExternalAccount) Account {
	balance := decimal.Zero
	if ext.CurrentBalance != nil {
		balance = decimal.NewFromFloat(*ext.CurrentBalance)
	}
	institution := link.InstitutionName
	if institution == "" {
		institution = UnknownInstitution
	}
	return Account{
		ID:               uuid.New(),
		UserID:           userID,
		PlaidAccountID:   ext.AccountID,
		PlaidItemID:      link.ItemID,
		PlaidAccessToken: link.AccessToken,
		InstitutionName:  institution,
		InstitutionID:    link.InstitutionID,
		Type:             MapExternalType(ext.Type),
		Balance:          balance,
		Currency:         currencyOrDefault(ext.ISOCurrencyCode),
		MaskedNumber:     ext.Mask,
		CustomName:       ext.Name,
		IsActive:         true,
		SyncStatus:       SyncPending,
	}
}
