package plaid

// LinkTokenResponse is returned by POST /plaid/link-token.
type LinkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

// ExchangeRequest is the body of POST /plaid/exchange-public-token.
type ExchangeRequest struct {
	PublicToken string `json:"publicToken" validate:"required"`
}

// ExchangeResponse reports the accounts and transactions a link brought in.
type ExchangeResponse struct {
	Success            bool `json:"success"`
	AccountsCount      int  `json:"accounts_count"`
	TransactionsSynced int  `json:"transactions_synced"`
}

// SyncRequest is the body of POST /plaid/sync-transactions.
type SyncRequest struct {
	AccountID string `json:"accountId" validate:"required,uuid"`
}

// SyncResponse reports the transactions written by a re-sync.
type SyncResponse struct {
	Success            bool `json:"success"`
	TransactionsSynced int  `json:"transactions_synced"`
}
