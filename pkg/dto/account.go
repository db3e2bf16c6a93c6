package dto

import (
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is the API view of an account. It never carries the access credential.
type AccountRead struct {
	ID              uuid.UUID          `json:"id"`
	InstitutionName string             `json:"institution_name"`
	InstitutionID   string             `json:"institution_id,omitempty"`
	AccountType     account.Type       `json:"account_type"`
	Balance         decimal.Decimal    `json:"balance"`
	Currency        string             `json:"currency"`
	MaskedNumber    string             `json:"account_number_masked,omitempty"`
	CustomName      string             `json:"custom_name,omitempty"`
	IsActive        bool               `json:"is_active"`
	Linked          bool               `json:"linked"`
	SyncStatus      account.SyncStatus `json:"sync_status"`
	LastSyncedAt    *time.Time         `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// AccountUpdate is a DTO for updating one or more fields of an account.
type AccountUpdate struct {
	Balance      *decimal.Decimal
	IsActive     *bool
	SyncStatus   *account.SyncStatus
	LastSyncedAt *time.Time
}

// NewAccountRead maps a domain account onto its API view.
func NewAccountRead(a *account.Account) *AccountRead {
	return &AccountRead{
		ID:              a.ID,
		InstitutionName: a.InstitutionName,
		InstitutionID:   a.InstitutionID,
		AccountType:     a.Type,
		Balance:         a.Balance,
		Currency:        a.Currency,
		MaskedNumber:    a.MaskedNumber,
		CustomName:      a.CustomName,
		IsActive:        a.IsActive,
		Linked:          a.IsLinked(),
		SyncStatus:      a.SyncStatus,
		LastSyncedAt:    a.LastSyncedAt,
		CreatedAt:       a.CreatedAt,
	}
}
