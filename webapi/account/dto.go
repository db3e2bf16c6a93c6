package account

import (
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/google/uuid"
)

// AccountsResponse lists the caller's accounts.
type AccountsResponse struct {
	Accounts []*dto.AccountRead `json:"accounts"`
}

// TransactionsResponse lists an account's transactions.
type TransactionsResponse struct {
	Transactions []*dto.TransactionRead `json:"transactions"`
}

// CategoryRequest assigns a category; a null categoryId clears it.
type CategoryRequest struct {
	CategoryID *uuid.UUID `json:"categoryId"`
}
