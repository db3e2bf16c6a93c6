package events

import (
	"time"

	"github.com/google/uuid"
)

// AccountsLinked is emitted after a link flow created its accounts.
// TransactionsSynced is zero when the trailing ingest failed.
type AccountsLinked struct {
	UserID             uuid.UUID `json:"user_id"`
	ItemID             string    `json:"item_id"`
	InstitutionName    string    `json:"institution_name"`
	AccountsCount      int       `json:"accounts_count"`
	TransactionsSynced int       `json:"transactions_synced"`
	Timestamp          time.Time `json:"timestamp"`
}

func (e AccountsLinked) Type() string { return EventTypeAccountsLinked.String() }
func (e AccountsLinked) Owner() uuid.UUID { return e.UserID }

// AccountSynced is emitted after a successful single-account re-sync.
type AccountSynced struct {
	UserID             uuid.UUID `json:"user_id"`
	AccountID          uuid.UUID `json:"account_id"`
	TransactionsSynced int       `json:"transactions_synced"`
	Timestamp          time.Time `json:"timestamp"`
}

func (e AccountSynced) Type() string { return EventTypeAccountSynced.String() }
func (e AccountSynced) Owner() uuid.UUID { return e.UserID }
