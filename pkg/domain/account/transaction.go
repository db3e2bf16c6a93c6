package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a transaction by the sign of its amount.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Transaction is one movement on one account. PlaidTransactionID is nil for
// manually entered rows and is the dedup key for ingested ones.
type Transaction struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	AccountID          uuid.UUID
	PlaidTransactionID *string
	Amount             decimal.Decimal
	Currency           string
	Date               time.Time
	Description        string
	MerchantName       string
	Pending            bool
	IsTransfer         bool
	IsRecurring        bool
	CategoryID         *uuid.UUID
	PlaidCategory      []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Kind returns income for positive amounts and expense otherwise.
func (t Transaction) Kind() Kind {
	if t.Amount.IsPositive() {
		return KindIncome
	}
	return KindExpense
}

// ExternalTransaction is a transaction as reported by the aggregator, in the
// aggregator's sign convention (positive is money out).
type ExternalTransaction struct {
	TransactionID   string
	AccountID       string
	Amount          float64
	ISOCurrencyCode string
	Date            time.Time
	Name            string
	MerchantName    string
	Pending         bool
	Category        []string
	TransactionType string
}
