package dto

import (
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRead is the API view of a transaction.
type TransactionRead struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Kind          account.Kind    `json:"transaction_type"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	MerchantName  string          `json:"merchant_name,omitempty"`
	Pending       bool            `json:"pending"`
	IsTransfer    bool            `json:"is_transfer"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	PlaidCategory []string        `json:"plaid_category,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewTransactionRead maps a domain transaction onto its API view.
func NewTransactionRead(t *account.Transaction) *TransactionRead {
	return &TransactionRead{
		ID:            t.ID,
		AccountID:     t.AccountID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Kind:          t.Kind(),
		Date:          t.Date.Format(time.DateOnly),
		Description:   t.Description,
		MerchantName:  t.MerchantName,
		Pending:       t.Pending,
		IsTransfer:    t.IsTransfer,
		CategoryID:    t.CategoryID,
		PlaidCategory: t.PlaidCategory,
		CreatedAt:     t.CreatedAt,
	}
}
